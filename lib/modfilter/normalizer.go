package modfilter

import (
	"strings"

	"github.com/forPelevin/gomoji"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TranslationTable maps a source code point to its canonical replacement.
// Replacement can be empty (drop the rune) or a short string.
type TranslationTable map[rune]string

// Normalizer converts raw message text into lowercase whitespace-separated tokens.
// It folds lookalike characters with the translation table before anything else, thread-safe.
type Normalizer struct {
	table      TranslationTable
	stripEmoji bool
}

// NormalizerOption is a functional option for Normalizer.
type NormalizerOption func(n *Normalizer)

// WithStripEmoji removes emoji from text before tokenization.
func WithStripEmoji(enabled bool) NormalizerOption {
	return func(n *Normalizer) { n.stripEmoji = enabled }
}

// NewNormalizer makes a Normalizer with a copy of the given translation table.
func NewNormalizer(table TranslationTable, opts ...NormalizerOption) *Normalizer {
	res := &Normalizer{table: make(TranslationTable, len(table))}
	for k, v := range table {
		res.table[k] = v
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Normalize translates, lowercases and splits text on whitespace.
// Empty and whitespace-only text produce an empty slice.
func (n *Normalizer) Normalize(text string) []string {
	if text == "" {
		return []string{}
	}
	text = n.Translate(text)
	if n.stripEmoji {
		text = gomoji.RemoveEmojis(text)
	}
	return strings.Fields(Lower(text))
}

// Lower lowercases text the same way for messages and catalog words,
// context-dependent mappings like the greek final sigma included.
func Lower(text string) string {
	// cases.Caser keeps state, so a fresh one is made for every call
	return cases.Lower(language.Und).String(text)
}

// Translate applies the translation table to every code point of the text.
// Runes missing in the table pass through unchanged.
func (n *Normalizer) Translate(text string) string {
	if len(n.table) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if repl, ok := n.table[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
