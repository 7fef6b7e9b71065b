package events

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/iroha-tools/modbot/app/bot"
)

//go:generate moq --out mocks/discord_api.go --pkg mocks --with-resets --skip-ensure . DiscordAPI
//go:generate moq --out mocks/removal_logger.go --pkg mocks --with-resets --skip-ensure . RemovalLogger
//go:generate moq --out mocks/bot.go --pkg mocks --with-resets --skip-ensure . Bot

// DiscordAPI is an interface for discord session, only subset of methods used
type DiscordAPI interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// RemovalLogger is an interface for removed messages logger
type RemovalLogger interface {
	Save(msg *bot.Message, response *bot.Response)
}

// RemovalLoggerFunc is a function that implements RemovalLogger interface
type RemovalLoggerFunc func(msg *bot.Message, response *bot.Response)

// Save is a function that implements RemovalLogger interface
func (f RemovalLoggerFunc) Save(msg *bot.Message, response *bot.Response) {
	f(msg, response)
}

// Bot is an interface for bot events.
type Bot interface {
	OnMessage(msg bot.Message) (response bot.Response)
}

// channelType maps discord channel types to bot's, guild text and announcement channels are "text"
func channelType(t discordgo.ChannelType) string {
	switch t {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return bot.ChannelTypeText
	case discordgo.ChannelTypeDM, discordgo.ChannelTypeGroupDM:
		return "dm"
	case discordgo.ChannelTypeGuildPublicThread, discordgo.ChannelTypeGuildPrivateThread, discordgo.ChannelTypeGuildNewsThread:
		return "thread"
	case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
		return "voice"
	default:
		return "other"
	}
}

func transform(msg *discordgo.Message) *bot.Message {
	message := bot.Message{
		ID:        msg.ID,
		ChannelID: msg.ChannelID,
		GuildID:   msg.GuildID,
		Sent:      msg.Timestamp,
		Text:      msg.Content,
	}

	if msg.Author != nil {
		message.From = bot.User{
			ID:       msg.Author.ID,
			Username: msg.Author.Username,
			Bot:      msg.Author.Bot,
		}
		if strings.TrimSpace(msg.Author.GlobalName) != "" {
			message.From.DisplayName = strings.TrimSpace(msg.Author.GlobalName)
		}
	}
	if msg.Member != nil && strings.TrimSpace(msg.Member.Nick) != "" {
		message.From.DisplayName = strings.TrimSpace(msg.Member.Nick)
	}
	return &message
}
