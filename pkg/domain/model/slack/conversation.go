package slack

import (
	api "github.com/slack-go/slack"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

// Conversation describes a source conversation and how it can be routed.
// It is fetched per operation and never persisted.
type Conversation struct {
	ID             types.ConversationID
	Kind           types.ConversationKind
	NameNormalized string
	// OtherUserID is the peer of a direct message; empty otherwise
	OtherUserID types.SlackUserID
}

// NewConversation classifies a Web API channel object. Membership is not
// carried here; callers list members through the API client when they
// need them.
func NewConversation(ch *api.Channel) *Conversation {
	c := &Conversation{
		ID:             types.ConversationID(ch.ID),
		Kind:           types.KindUnknown,
		NameNormalized: ch.NameNormalized,
	}

	switch {
	case ch.IsIM:
		c.Kind = types.KindDirect
		c.OtherUserID = types.SlackUserID(ch.User)
	case ch.IsMpIM:
		c.Kind = types.KindMultiDirect
	case ch.IsGroup || ch.IsPrivate:
		c.Kind = types.KindPrivateChannel
	}

	return c
}
