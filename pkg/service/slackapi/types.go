package slackapi

import (
	"context"

	slackmodel "github.com/slackline-io/slackline/pkg/domain/model/slack"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

// Service is the read-side Slack Web API surface of the bridge. Every
// instance is scoped to a single user token; responses are cached per
// instance so a burst of lookups during an import or relay hits the API
// once per endpoint and parameter set.
type Service interface {
	// MyInfo identifies the owner of the token.
	MyInfo(ctx context.Context) (*slackmodel.User, error)

	// UserInfo resolves a single workspace user.
	UserInfo(ctx context.Context, id types.SlackUserID) (*slackmodel.User, error)

	// WorkspaceUsers lists all active human users of the workspace.
	WorkspaceUsers(ctx context.Context) ([]*slackmodel.User, error)

	// ListConversations pages through every conversation of the given kinds
	// visible to the token owner.
	ListConversations(ctx context.Context, kinds []string) ([]*slackmodel.Conversation, error)

	// ConversationInfo resolves a single conversation by ID.
	ConversationInfo(ctx context.Context, id types.ConversationID) (*slackmodel.Conversation, error)

	// ConversationMembers lists the member IDs of a conversation.
	ConversationMembers(ctx context.Context, id types.ConversationID) ([]types.SlackUserID, error)

	// FullHistory fetches the complete history of a conversation in
	// chronological order, oldest message first.
	FullHistory(ctx context.Context, id types.ConversationID) ([]*slackmodel.Message, error)
}

// ConversationTypes are the conversation kinds the bridge operates on.
// Public channels are deliberately excluded.
var ConversationTypes = []string{"im", "mpim", "private_channel"}
