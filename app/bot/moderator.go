package bot

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/iroha-tools/modbot/app/config"
	"github.com/iroha-tools/modbot/app/metrics"
	"github.com/iroha-tools/modbot/lib/modfilter"
	"github.com/iroha-tools/modbot/lib/spamcheck"
)

//go:generate moq --out mocks/detector.go --pkg mocks --skip-ensure --with-resets . Detector

// Detector is a restricted pairs detector interface
type Detector interface {
	Check(text string) (modfilter.Result, bool)
}

// Moderator bot checks messages posted to allowed channels against restricted pairs
type Moderator struct {
	Detector
	params config.ModerationConfig
}

// NewModerator makes a Moderator for the given detector and options
func NewModerator(detector Detector, params config.ModerationConfig) *Moderator {
	return &Moderator{Detector: detector, params: params}
}

// OnMessage checks a message and returns response with Delete set if the message has to be removed.
// Messages from channels not in the allow-list are not checked at all.
func (m *Moderator) OnMessage(msg Message) Response {
	if msg.ChannelType != "" && msg.ChannelType != ChannelTypeText {
		return Response{}
	}
	resp := m.CheckRequest(spamcheck.Request{Msg: msg.Text, ChannelID: msg.ChannelID, ChannelName: msg.ChannelName,
		UserID: msg.From.ID, UserName: msg.From.Username})
	if resp.Delete {
		log.Printf("[INFO] message %s from %s in %q matched %s:%d, %s",
			msg.ID, DisplayName(msg), msg.ChannelName, resp.Trigger, resp.Count, spamcheck.ChecksToString(resp.CheckResults))
		return resp
	}
	if len(resp.CheckResults) > 1 {
		log.Printf("[DEBUG] message %s from %s is clean, %s", msg.ID, DisplayName(msg), spamcheck.ChecksToString(resp.CheckResults))
	}
	return resp
}

// CheckRequest runs channel and pairs checks for the request
func (m *Moderator) CheckRequest(req spamcheck.Request) Response {
	allowed, res, found := m.Check(req.Channels(), req.Msg)
	channelCheck := spamcheck.Response{Name: "channel", Details: "not allowed"}
	if !allowed {
		return Response{CheckResults: []spamcheck.Response{channelCheck}}
	}
	channelCheck.Details = "allowed"

	pairsCheck := spamcheck.Response{Name: "pairs", Details: "no trigger"}
	if found {
		pairsCheck.Spam = true
		pairsCheck.Details = res.String()
	}
	resp := Response{CheckResults: []spamcheck.Response{channelCheck, pairsCheck}}
	if found {
		resp.Delete, resp.Trigger, resp.Count = true, res.Trigger, res.Count
	}
	return resp
}

// Check returns allowed=false if none of channel identifiers is in the allow-list, detector is not invoked
// in this case. Otherwise found reports the first qualifying trigger of the text.
func (m *Moderator) Check(channelIDs []string, text string) (allowed bool, res modfilter.Result, found bool) {
	if !m.params.IsAllowed(channelIDs...) {
		return false, modfilter.Result{}, false
	}
	if strings.TrimSpace(text) == "" {
		return true, modfilter.Result{}, false
	}
	st := time.Now()
	res, found = m.Detector.Check(text)
	metrics.DetectDuration.Observe(time.Since(st).Seconds())
	return true, res, found
}

// AllowedChannels returns the channel allow-list
func (m *Moderator) AllowedChannels() []string {
	res := make([]string, len(m.params.AllowedChannels))
	copy(res, m.params.AllowedChannels)
	return res
}

func (m *Moderator) String() string {
	return fmt.Sprintf("moderator{channels:%v, threshold:%d}", m.params.AllowedChannels, m.params.Threshold)
}
