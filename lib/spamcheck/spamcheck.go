// Package spamcheck defines the request and the diagnostic records of a moderation check.
package spamcheck

import (
	"fmt"
	"strings"
)

// Request is a request to check a message for spam.
type Request struct {
	Msg         string `json:"msg"`          // message to check
	ChannelID   string `json:"channel_id"`   // channel id the message posted to
	ChannelName string `json:"channel_name"` // channel name, optional
	UserID      string `json:"user_id"`      // author id
	UserName    string `json:"user_name"`    // author name
}

func (r *Request) String() string {
	return fmt.Sprintf("msg:%q, channel:%q, channel_id:%s, user:%q, id:%s",
		r.Msg, r.ChannelName, r.ChannelID, r.UserName, r.UserID)
}

// Channels returns non-empty channel identifiers of the request.
func (r *Request) Channels() []string {
	res := make([]string, 0, 2)
	if r.ChannelID != "" {
		res = append(res, r.ChannelID)
	}
	if r.ChannelName != "" {
		res = append(res, r.ChannelName)
	}
	return res
}

// Response is a result of spam check.
type Response struct {
	Name    string `json:"name"`    // name of the check
	Spam    bool   `json:"spam"`    // true if spam
	Details string `json:"details"` // details of the check
	Error   error  `json:"-"`       // error message, if any. Do not serialize it
}

func (r *Response) String() string {
	spamOrHam := "ham"
	if r.Spam {
		spamOrHam = "spam"
	}
	return fmt.Sprintf("%s: %s, %s", r.Name, spamOrHam, r.Details)
}

// ChecksToString converts a slice of checks to a string
func ChecksToString(checks []Response) string {
	elems := []string{}
	for _, r := range checks {
		elems = append(elems, "{"+r.String()+"}")
	}
	return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
}
