package config

import (
	"slices"
	"strings"

	"github.com/iroha-tools/modbot/lib/modfilter"
)

// ModerationConfig represents the options document, independent of source (file, DB)
type ModerationConfig struct {
	AllowedChannels []string `json:"allowed_channels" yaml:"allowed_channels"`
	Threshold       int      `json:"threshold" yaml:"threshold"`
	StripEmoji      bool     `json:"strip_emoji" yaml:"strip_emoji"`
}

// New makes ModerationConfig with defaults
func New() ModerationConfig {
	return ModerationConfig{Threshold: modfilter.DefaultThreshold}
}

// IsAllowed returns true if any of the given channel identifiers (id or name) is in the allow-list.
// Empty identifiers are ignored, names compared case-insensitively with an optional leading "#".
func (c ModerationConfig) IsAllowed(ids ...string) bool {
	for _, id := range ids {
		id = normChannel(id)
		if id == "" {
			continue
		}
		if slices.ContainsFunc(c.AllowedChannels, func(ch string) bool { return normChannel(ch) == id }) {
			return true
		}
	}
	return false
}

// Catalogs is the immutable moderation context loaded once at startup
type Catalogs struct {
	Options     ModerationConfig
	Pairs       []modfilter.Entry
	Translation modfilter.TranslationTable
}

// Detector makes a detector from loaded catalogs
func (c Catalogs) Detector() (*modfilter.Detector, error) {
	catalog, err := modfilter.NewCatalog(c.Pairs...)
	if err != nil {
		return nil, err
	}
	normalizer := modfilter.NewNormalizer(c.Translation, modfilter.WithStripEmoji(c.Options.StripEmoji))
	return modfilter.NewDetector(catalog, normalizer, c.Options.Threshold), nil
}

func normChannel(ch string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ch), "#"))
}
