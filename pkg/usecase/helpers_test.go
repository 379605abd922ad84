package usecase_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	slackmodel "github.com/slackline-io/slackline/pkg/domain/model/slack"
	"github.com/slackline-io/slackline/pkg/domain/types"
	"github.com/slackline-io/slackline/pkg/repository/memory"
	"github.com/slackline-io/slackline/pkg/service/hostchat"
	"github.com/slackline-io/slackline/pkg/service/slackapi"
	"github.com/slackline-io/slackline/pkg/usecase"
)

// fakeSlack is a canned slackapi.Service for use case tests
type fakeSlack struct {
	me            *slackmodel.User
	users         []*slackmodel.User
	conversations []*slackmodel.Conversation
	members       map[types.ConversationID][]types.SlackUserID
	history       map[types.ConversationID][]*slackmodel.Message
}

var _ slackapi.Service = &fakeSlack{}

func (f *fakeSlack) MyInfo(ctx context.Context) (*slackmodel.User, error) {
	if f.me == nil {
		return nil, goerr.New("no identity configured")
	}
	return f.me, nil
}

func (f *fakeSlack) UserInfo(ctx context.Context, id types.SlackUserID) (*slackmodel.User, error) {
	if f.me != nil && f.me.ID == id {
		return f.me, nil
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, goerr.New("user not found", goerr.V("id", id))
}

func (f *fakeSlack) WorkspaceUsers(ctx context.Context) ([]*slackmodel.User, error) {
	return f.users, nil
}

func (f *fakeSlack) ListConversations(ctx context.Context, kinds []string) ([]*slackmodel.Conversation, error) {
	return f.conversations, nil
}

func (f *fakeSlack) ConversationInfo(ctx context.Context, id types.ConversationID) (*slackmodel.Conversation, error) {
	for _, c := range f.conversations {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, goerr.New("conversation not found", goerr.V("id", id))
}

func (f *fakeSlack) ConversationMembers(ctx context.Context, id types.ConversationID) ([]types.SlackUserID, error) {
	return f.members[id], nil
}

func (f *fakeSlack) FullHistory(ctx context.Context, id types.ConversationID) ([]*slackmodel.Message, error) {
	return f.history[id], nil
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// oauthStub fakes the code exchange endpoint
func oauthStub(token string, slackUserID types.SlackUserID) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		body := fmt.Sprintf(`{"ok":true,"access_token":%q,"user_id":%q,"team_id":"T0000001","scope":"im:history"}`,
			token, slackUserID)
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    r,
		}, nil
	})}
}

type fixture struct {
	repo  *memory.Memory
	chat  *hostchat.Memory
	slack *fakeSlack
	uc    *usecase.UseCases
}

func newFixture(t *testing.T, token string, slackUserID types.SlackUserID, opts ...usecase.Option) *fixture {
	t.Helper()

	f := &fixture{
		repo: memory.New(),
		chat: hostchat.NewMemory(),
		slack: &fakeSlack{
			members: make(map[types.ConversationID][]types.SlackUserID),
			history: make(map[types.ConversationID][]*slackmodel.Message),
		},
	}

	authz := &slackapi.Authorization{
		ClientID:     "123.456",
		ClientSecret: "shh",
		RedirectURI:  "https://bridge.example.com/oauth/callback",
		HTTPClient:   oauthStub(token, slackUserID),
	}

	opts = append([]usecase.Option{
		usecase.WithSlackClientFactory(func(string) (slackapi.Service, error) { return f.slack, nil }),
	}, opts...)

	f.uc = usecase.New(f.repo, f.chat, authz, opts...)
	return f
}

// link runs the full login flow for a user
func (f *fixture) link(t *testing.T, userID types.UserID) {
	t.Helper()

	session := f.sessionOf(t, userID)
	if _, _, err := f.uc.HandleCallback(context.Background(), session, "test-code"); err != nil {
		t.Fatalf("HandleCallback failed: %v", err)
	}
}

// sessionOf starts a login and captures the pending login ID from the
// state parameter of the authorize URL.
func (f *fixture) sessionOf(t *testing.T, userID types.UserID) types.LoginID {
	t.Helper()

	url, err := f.uc.BeginLogin(context.Background(), userID)
	if err != nil {
		t.Fatalf("BeginLogin failed: %v", err)
	}
	return loginIDFromURL(t, url)
}

func loginIDFromURL(t *testing.T, rawURL string) types.LoginID {
	t.Helper()

	const marker = "state="
	i := strings.Index(rawURL, marker)
	if i < 0 {
		t.Fatalf("no state parameter in %s", rawURL)
	}
	state := rawURL[i+len(marker):]
	if j := strings.IndexByte(state, '&'); j >= 0 {
		state = state[:j]
	}
	return types.LoginID(state)
}
