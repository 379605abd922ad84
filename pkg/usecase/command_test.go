package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	slackmodel "github.com/slackline-io/slackline/pkg/domain/model/slack"
	"github.com/slackline-io/slackline/pkg/domain/types"
	"github.com/slackline-io/slackline/pkg/service/hostchat"
	"github.com/slackline-io/slackline/pkg/usecase"
)

func TestHandleCommand(t *testing.T) {
	f := newFixture(t, "xoxp-granted", "U0000001")
	f.slack.me = &slackmodel.User{ID: "U0000001", Name: "alice"}
	f.slack.users = []*slackmodel.User{{ID: "U0000001", Name: "alice"}}
	f.slack.conversations = []*slackmodel.Conversation{
		{ID: "G0000001", Kind: types.KindPrivateChannel, NameNormalized: "secret-plans"},
	}
	f.chat.AddRoom(&hostchat.Room{ID: "R001", Name: "secret-plans", Kind: hostchat.RoomPrivate})

	ctx := context.Background()
	cmd := func(text string) *usecase.Command {
		return &usecase.Command{UserID: "host-alice", RoomID: "R001", Text: text}
	}

	t.Run("import before login", func(t *testing.T) {
		reply, err := f.uc.HandleCommand(ctx, cmd("import"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("You must login first")
	})

	t.Run("enable before login", func(t *testing.T) {
		reply, err := f.uc.HandleCommand(ctx, cmd("enable"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("You must login first")
	})

	t.Run("login returns the authorize link", func(t *testing.T) {
		reply, err := f.uc.HandleCommand(ctx, cmd("login"))
		gt.NoError(t, err).Required()
		gt.Value(t, strings.Contains(reply, "https://slack.com/oauth/authorize?")).Equal(true)
	})

	t.Run("import after login reports counts", func(t *testing.T) {
		f.link(t, "host-alice")

		reply, err := f.uc.HandleCommand(ctx, cmd("import"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Import finished: 0 messages processed, 0 ignored")
	})

	t.Run("enable and disable", func(t *testing.T) {
		reply, err := f.uc.HandleCommand(ctx, cmd("enable"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Live sync enabled")

		reply, err = f.uc.HandleCommand(ctx, cmd("disable"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Live sync disabled")
	})

	t.Run("logout", func(t *testing.T) {
		reply, err := f.uc.HandleCommand(ctx, cmd("logout"))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Your workspace account has been disconnected")

		account, err := f.repo.GetAccount(ctx, "host-alice")
		gt.NoError(t, err).Required()
		gt.Value(t, account.Linked()).Equal(false)
	})

	t.Run("unknown verbs get the usage text", func(t *testing.T) {
		reply, err := f.uc.HandleCommand(ctx, cmd("dance"))
		gt.NoError(t, err).Required()
		gt.Value(t, strings.HasPrefix(reply, "Usage:")).Equal(true)
	})

	t.Run("case and whitespace are tolerated", func(t *testing.T) {
		reply, err := f.uc.HandleCommand(ctx, cmd("  DISABLE  "))
		gt.NoError(t, err).Required()
		gt.Value(t, reply).Equal("Live sync disabled")
	})
}

func TestHandleCommandUnresolvableRoom(t *testing.T) {
	f := newFixture(t, "xoxp-granted", "U0000001")
	f.slack.me = &slackmodel.User{ID: "U0000001", Name: "alice"}
	f.chat.AddRoom(&hostchat.Room{ID: "R002", Name: "nowhere", Kind: hostchat.RoomPrivate})
	f.link(t, "host-alice")

	reply, err := f.uc.HandleCommand(context.Background(), &usecase.Command{UserID: "host-alice", RoomID: "R002", Text: "import"})
	gt.NoError(t, err).Required()
	gt.Value(t, reply).Equal("No matching conversation was found for this room")
}

func TestHandleCommandPublicRoom(t *testing.T) {
	f := newFixture(t, "xoxp-granted", "U0000001")
	f.slack.me = &slackmodel.User{ID: "U0000001", Name: "alice"}
	f.chat.AddRoom(&hostchat.Room{ID: "R003", Name: "town-square", Kind: hostchat.RoomPublic})
	f.link(t, "host-alice")

	reply, err := f.uc.HandleCommand(context.Background(), &usecase.Command{UserID: "host-alice", RoomID: "R003", Text: "import"})
	gt.NoError(t, err).Required()
	gt.Value(t, reply).Equal("Only private channels and direct messages are supported")
}
