package slackapi

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	api "github.com/slack-go/slack"
	slackmodel "github.com/slackline-io/slackline/pkg/domain/model/slack"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

const (
	// DefaultCacheTTL is the default TTL for cached API responses
	DefaultCacheTTL = 45 * time.Second

	pageLimit = 200
)

// client implements Service on top of the Slack Web API
type client struct {
	api      *api.Client
	cacheTTL time.Duration
	apiOpts  []api.Option

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

var _ Service = &client{}

// Option is a functional option for client configuration
type Option func(*client)

// WithCacheTTL sets the TTL for cached API responses
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *client) {
		c.cacheTTL = ttl
	}
}

// WithAPIURL points the client at an alternate API endpoint, mainly for tests
func WithAPIURL(url string) Option {
	return func(c *client) {
		c.apiOpts = append(c.apiOpts, api.OptionAPIURL(url))
	}
}

// New creates a Service bound to a single user access token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack access token is required")
	}

	c := &client{
		cacheTTL: DefaultCacheTTL,
		cache:    make(map[string]cacheEntry),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.api = api.New(token, c.apiOpts...)

	return c, nil
}

func (c *client) MyInfo(ctx context.Context) (*slackmodel.User, error) {
	const key = "auth.test"
	if v, ok := c.lookup(key); ok {
		return v.(*slackmodel.User), nil
	}

	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call auth.test")
	}

	user, err := c.UserInfo(ctx, types.SlackUserID(resp.UserID))
	if err != nil {
		return nil, err
	}

	c.store(key, user)
	return user, nil
}

func (c *client) UserInfo(ctx context.Context, id types.SlackUserID) (*slackmodel.User, error) {
	key := cacheKey("users.info", id.String())
	if v, ok := c.lookup(key); ok {
		return v.(*slackmodel.User), nil
	}

	info, err := c.api.GetUserInfoContext(ctx, id.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user info", goerr.V("user_id", id))
	}

	user := slackmodel.NewUser(info)
	c.store(key, user)
	return user, nil
}

func (c *client) WorkspaceUsers(ctx context.Context) ([]*slackmodel.User, error) {
	const key = "users.list"
	if v, ok := c.lookup(key); ok {
		return v.([]*slackmodel.User), nil
	}

	users, err := c.api.GetUsersContext(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list workspace users")
	}

	result := make([]*slackmodel.User, 0, len(users))
	for i := range users {
		if users[i].Deleted || users[i].IsBot {
			continue
		}
		result = append(result, slackmodel.NewUser(&users[i]))
	}

	c.store(key, result)
	return result, nil
}

func (c *client) ListConversations(ctx context.Context, kinds []string) ([]*slackmodel.Conversation, error) {
	key := cacheKey("conversations.list", strings.Join(kinds, ","))
	if v, ok := c.lookup(key); ok {
		return v.([]*slackmodel.Conversation), nil
	}

	var conversations []*slackmodel.Conversation
	var cursor string

	for {
		convs, nextCursor, err := c.api.GetConversationsContext(ctx, &api.GetConversationsParameters{
			Types:  kinds,
			Limit:  pageLimit,
			Cursor: cursor,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list conversations", goerr.V("kinds", kinds))
		}

		for i := range convs {
			conversations = append(conversations, slackmodel.NewConversation(&convs[i]))
		}

		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	c.store(key, conversations)
	return conversations, nil
}

func (c *client) ConversationInfo(ctx context.Context, id types.ConversationID) (*slackmodel.Conversation, error) {
	key := cacheKey("conversations.info", id.String())
	if v, ok := c.lookup(key); ok {
		return v.(*slackmodel.Conversation), nil
	}

	ch, err := c.api.GetConversationInfoContext(ctx, &api.GetConversationInfoInput{
		ChannelID: id.String(),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get conversation info", goerr.V("conversation_id", id))
	}

	conversation := slackmodel.NewConversation(ch)
	c.store(key, conversation)
	return conversation, nil
}

func (c *client) ConversationMembers(ctx context.Context, id types.ConversationID) ([]types.SlackUserID, error) {
	key := cacheKey("conversations.members", id.String())
	if v, ok := c.lookup(key); ok {
		return v.([]types.SlackUserID), nil
	}

	var members []types.SlackUserID
	params := &api.GetUsersInConversationParameters{
		ChannelID: id.String(),
		Limit:     pageLimit,
	}

	for {
		ids, nextCursor, err := c.api.GetUsersInConversationContext(ctx, params)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get conversation members", goerr.V("conversation_id", id))
		}

		for _, uid := range ids {
			members = append(members, types.SlackUserID(uid))
		}

		if nextCursor == "" {
			break
		}
		params.Cursor = nextCursor
	}

	c.store(key, members)
	return members, nil
}

func (c *client) FullHistory(ctx context.Context, id types.ConversationID) ([]*slackmodel.Message, error) {
	var all []*slackmodel.Message
	var cursor string

	for {
		resp, err := c.api.GetConversationHistoryContext(ctx, &api.GetConversationHistoryParameters{
			ChannelID: id.String(),
			Limit:     pageLimit,
			Cursor:    cursor,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to fetch conversation history", goerr.V("conversation_id", id))
		}

		for i := range resp.Messages {
			all = append(all, slackmodel.NewMessage(id, &resp.Messages[i]))
		}

		if !resp.HasMore || resp.ResponseMetaData.NextCursor == "" {
			break
		}
		cursor = resp.ResponseMetaData.NextCursor
	}

	// The API pages newest first; flip to chronological order
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}

	return all, nil
}
