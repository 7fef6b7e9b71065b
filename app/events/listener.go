// Package events provide event handlers for discord bot and all the high-level event handlers.
// It receives guild messages, sends them to the moderator and removes messages the moderator flagged.
// Removals run in the background, a failed removal is logged and doesn't affect other messages.
package events

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-pkgz/repeater"

	"github.com/iroha-tools/modbot/app/bot"
	"github.com/iroha-tools/modbot/app/metrics"
)

// DiscordListener listens to discord gateway events, forward messages to bot and removes flagged ones
type DiscordListener struct {
	API             DiscordAPI
	RemovalLogger   RemovalLogger
	Bot             Bot
	Dry             bool
	ChannelCacheTTL time.Duration
	OpenRetries     int
	OpenDelay       time.Duration

	channels *channelResolver
	updates  chan *discordgo.MessageCreate
	done     <-chan struct{}
	botUser  struct {
		sync.RWMutex
		id   string
		name string
	}
	wg sync.WaitGroup
}

// Do process all events, blocked call. Returns ctx error on shutdown, session closed before return.
func (l *DiscordListener) Do(ctx context.Context) error {
	log.Printf("[INFO] start discord listener")
	if l.Dry {
		log.Printf("[WARN] dry mode, no removals")
	}

	if l.ChannelCacheTTL == 0 {
		l.ChannelCacheTTL = 5 * time.Minute
	}
	if l.OpenRetries == 0 {
		l.OpenRetries = 5
	}
	if l.OpenDelay == 0 {
		l.OpenDelay = 3 * time.Second
	}
	l.channels = newChannelResolver(l.API, l.ChannelCacheTTL)
	l.updates = make(chan *discordgo.MessageCreate, 100)
	l.done = ctx.Done()

	removeReady := l.API.AddHandler(l.onReady)
	removeMsg := l.API.AddHandler(l.onMessageCreate)
	defer func() {
		removeReady()
		removeMsg()
	}()

	err := repeater.NewDefault(l.OpenRetries, l.OpenDelay).Do(ctx, func() error {
		if e := l.API.Open(); e != nil {
			log.Printf("[WARN] failed to open discord session: %v", e)
			return e
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	defer func() {
		l.wg.Wait() // let in-flight removals finish before closing the session
		if e := l.API.Close(); e != nil {
			log.Printf("[WARN] failed to close discord session: %v", e)
		}
		log.Printf("[INFO] discord session closed")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-l.updates:
			l.procEvents(ctx, m)
		}
	}
}

// BotID returns id of the bot user, empty until the gateway ready event received
func (l *DiscordListener) BotID() string {
	l.botUser.RLock()
	defer l.botUser.RUnlock()
	return l.botUser.id
}

func (l *DiscordListener) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	if r == nil || r.User == nil {
		return
	}
	l.botUser.Lock()
	l.botUser.id, l.botUser.name = r.User.ID, r.User.Username
	l.botUser.Unlock()
	log.Printf("[INFO] logged in as %s (%s), guilds: %d", r.User.Username, r.User.ID, len(r.Guilds))
}

// onMessageCreate passes the event to the processing loop, dropped on shutdown
func (l *DiscordListener) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil {
		return
	}
	select {
	case l.updates <- m:
	case <-l.done:
	}
}

func (l *DiscordListener) procEvents(ctx context.Context, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == l.BotID() {
		return // system messages and own messages
	}
	if m.GuildID == "" {
		log.Printf("[DEBUG] ignoring direct message %s from %s", m.ID, m.Author.Username)
		metrics.MessagesTotal.WithLabelValues(metrics.ResultSkipped).Inc()
		return
	}

	msg := transform(m.Message)
	if ch, err := l.channels.Get(ctx, m.ChannelID); err == nil {
		msg.ChannelName, msg.ChannelType = ch.Name, ch.Type
	} else {
		log.Printf("[WARN] can't resolve channel %s, checking by id only: %v", m.ChannelID, err)
	}
	log.Printf("[DEBUG] incoming msg %s in %q: %s", msg.ID, msg.ChannelName, strings.ReplaceAll(msg.Text, "\n", " "))

	resp := l.Bot.OnMessage(*msg)
	switch {
	case len(resp.CheckResults) < 2:
		metrics.MessagesTotal.WithLabelValues(metrics.ResultSkipped).Inc()
		return
	case !resp.Delete:
		metrics.MessagesTotal.WithLabelValues(metrics.ResultClean).Inc()
		return
	case l.Dry:
		metrics.MessagesTotal.WithLabelValues(metrics.ResultDry).Inc()
		log.Printf("[INFO] dry run: message %s from %s not removed, %s:%d", msg.ID, bot.Author(*msg), resp.Trigger, resp.Count)
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.remove(msg, &resp)
	}()
}

// remove deletes the message and writes removal record on success
func (l *DiscordListener) remove(msg *bot.Message, resp *bot.Response) {
	if err := l.API.ChannelMessageDelete(msg.ChannelID, msg.ID); err != nil {
		metrics.DeleteFailures.Inc()
		log.Printf("[WARN] failed to delete message %s in %s from %s: %v", msg.ID, msg.ChannelID, bot.Author(*msg), err)
		return
	}
	metrics.MessagesTotal.WithLabelValues(metrics.ResultRemoved).Inc()
	if l.RemovalLogger != nil {
		l.RemovalLogger.Save(msg, resp)
	}
}
