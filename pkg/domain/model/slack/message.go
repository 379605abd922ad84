package slack

import (
	"strconv"
	"strings"
	"time"

	api "github.com/slack-go/slack"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

// Message is one entry of a conversation history page
type Message struct {
	ConversationID types.ConversationID
	AuthorID       types.SlackUserID
	Text           string
	// Timestamp is the raw Slack ts ("1565297097.000300"); it is both the
	// message timestamp and its unique ID within the conversation
	Timestamp string
	// ClientMsgID is Slack's client-generated message ID, used as the
	// idempotency anchor for imports. May be empty for bot messages.
	ClientMsgID string
}

// NewMessage converts a Web API history message
func NewMessage(conversationID types.ConversationID, m *api.Message) *Message {
	return &Message{
		ConversationID: conversationID,
		AuthorID:       types.SlackUserID(m.User),
		Text:           m.Text,
		Timestamp:      m.Timestamp,
		ClientMsgID:    m.ClientMsgID,
	}
}

// Time derives the message creation time from the ts seconds part. The
// sub-second suffix is a sequence number, not wall time, and is dropped.
func (x *Message) Time() time.Time {
	seconds := x.Timestamp
	if i := strings.IndexByte(seconds, '.'); i >= 0 {
		seconds = seconds[:i]
	}
	sec, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
