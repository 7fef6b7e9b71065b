package events

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	cache "github.com/go-pkgz/expirable-cache/v3"
)

const defaultMaxChannels = 1000

// channelInfo is a resolved channel, type is bot's channel type
type channelInfo struct {
	ID   string
	Name string
	Type string
}

// channelResolver looks up channel names and types, results are cached for ttl
type channelResolver struct {
	api   DiscordAPI
	ttl   time.Duration
	cache cache.Cache[string, channelInfo]
}

func newChannelResolver(api DiscordAPI, ttl time.Duration) *channelResolver {
	return &channelResolver{
		api:   api,
		ttl:   ttl,
		cache: cache.NewCache[string, channelInfo]().WithMaxKeys(defaultMaxChannels).WithTTL(ttl),
	}
}

// Get returns channel info from cache or from discord api
func (r *channelResolver) Get(ctx context.Context, channelID string) (channelInfo, error) {
	if ch, ok := r.cache.Get(channelID); ok {
		return ch, nil
	}
	ch, err := r.api.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return channelInfo{}, fmt.Errorf("failed to get channel %s: %w", channelID, err)
	}
	if ch == nil {
		return channelInfo{}, fmt.Errorf("channel %s not found", channelID)
	}
	res := channelInfo{ID: ch.ID, Name: ch.Name, Type: channelType(ch.Type)}
	r.cache.Set(channelID, res, r.ttl)
	return res, nil
}
