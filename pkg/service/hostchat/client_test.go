package hostchat_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/slackline-io/slackline/pkg/domain/types"
	"github.com/slackline-io/slackline/pkg/service/hostchat"
)

func TestNew(t *testing.T) {
	t.Run("requires base URL", func(t *testing.T) {
		_, err := hostchat.New("", "token")
		gt.Value(t, err).NotNil()
	})

	t.Run("requires auth token", func(t *testing.T) {
		_, err := hostchat.New("http://chat.internal", "")
		gt.Value(t, err).NotNil()
	})
}

func TestClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/rooms/R001", func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.Header.Get("Authorization")).Equal("Bearer secret-token")
		fmt.Fprint(w, `{"id":"R001","name":"secret-plans","kind":"private"}`)
	})
	mux.HandleFunc("GET /api/v1/rooms/R001/members", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"members":[{"id":"u1","username":"alice"},{"id":"u2","username":"bob"}]}`)
	})

	var posted hostchat.OutboundMessage
	mux.HandleFunc("POST /api/v1/rooms/R001/messages", func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&posted)).Required()
		w.WriteHeader(http.StatusCreated)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	svc, err := hostchat.New(srv.URL, "secret-token")
	gt.NoError(t, err).Required()

	ctx := context.Background()

	room, err := svc.GetRoom(ctx, "R001")
	gt.NoError(t, err).Required()
	gt.Value(t, room.Name).Equal("secret-plans")
	gt.Value(t, room.Kind).Equal(hostchat.RoomPrivate)

	members, err := svc.GetRoomMembers(ctx, "R001")
	gt.NoError(t, err).Required()
	gt.Array(t, members).Length(2)
	gt.Value(t, members[0].Username).Equal("alice")

	ts := time.Unix(1565297097, 0).UTC()
	err = svc.PostMessage(ctx, &hostchat.OutboundMessage{
		RoomID:          "R001",
		Text:            "hello from the other side",
		Alias:           "alice (slack)",
		SourceMsgID:     "m1",
		SourceTimestamp: ts,
	})
	gt.NoError(t, err).Required()
	gt.Value(t, posted.Alias).Equal("alice (slack)")
	gt.Value(t, posted.SourceMsgID).Equal("m1")
}

func TestClientGetUserByUsername(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/users", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("username") != "alice" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"id":"u1","username":"alice"}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	svc, err := hostchat.New(srv.URL, "secret-token")
	gt.NoError(t, err).Required()

	ctx := context.Background()

	user, err := svc.GetUserByUsername(ctx, "alice")
	gt.NoError(t, err).Required()
	gt.Value(t, user.ID).Equal(types.UserID("u1"))
	gt.Value(t, user.Username).Equal("alice")

	_, err = svc.GetUserByUsername(ctx, "nobody")
	gt.Value(t, errors.Is(err, hostchat.ErrUserNotFound)).Equal(true)
}

func TestClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	svc, err := hostchat.New(srv.URL, "secret-token")
	gt.NoError(t, err).Required()

	_, err = svc.GetRoom(context.Background(), types.RoomID("R404"))
	gt.Value(t, err).NotNil()
}
