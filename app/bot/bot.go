package bot

import (
	"strings"
	"time"

	"github.com/iroha-tools/modbot/lib/spamcheck"
)

// Response describes bot's reaction on particular message
type Response struct {
	Delete       bool                 // delete the message
	Trigger      string               // trigger word caused the removal
	Count        int                  // combined count of trigger and its pairs
	CheckResults []spamcheck.Response // check results for the message
}

// Message is primary record to pass data from/to bots
type Message struct {
	ID          string
	ChannelID   string
	ChannelName string `json:",omitempty"`
	ChannelType string `json:",omitempty"` // "text" for guild text channels
	GuildID     string `json:",omitempty"`
	From        User
	Text        string `json:",omitempty"`
	Sent        time.Time
}

// User defines user info of the Message
type User struct {
	ID          string `json:"id"`
	Username    string `json:"user_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Bot         bool   `json:"bot,omitempty"`
}

// ChannelTypeText is a type of channels eligible for moderation
const ChannelTypeText = "text"

// DisplayName returns user's display name or username or id
func DisplayName(msg Message) string {
	displayUsername := msg.From.DisplayName
	if displayUsername == "" {
		displayUsername = msg.From.Username
	}
	if displayUsername == "" {
		displayUsername = msg.From.ID
	}
	return strings.TrimSpace(displayUsername)
}

// Author returns the author string used in removal records, username first
func Author(msg Message) string {
	if name := strings.TrimSpace(msg.From.Username); name != "" {
		return name
	}
	return DisplayName(msg)
}
