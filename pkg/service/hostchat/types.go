package hostchat

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

// ErrUserNotFound is returned when no destination account holds a username
var ErrUserNotFound = goerr.New("user not found")

// RoomKind classifies a destination room the way the resolver needs it
type RoomKind string

const (
	RoomDirect  RoomKind = "direct"
	RoomPrivate RoomKind = "private"
	RoomPublic  RoomKind = "public"
)

// User is a destination platform user
type User struct {
	ID       types.UserID `json:"id"`
	Username string       `json:"username"`
}

// Room is a destination room together with the attributes channel
// resolution depends on
type Room struct {
	ID   types.RoomID `json:"id"`
	Name string       `json:"name"`
	Kind RoomKind     `json:"kind"`
}

// OutboundMessage is a message posted into a destination room on behalf of
// a source-side author
type OutboundMessage struct {
	RoomID types.RoomID `json:"room_id"`
	Text   string       `json:"text"`
	// Alias is the display name shown instead of the posting account
	Alias string `json:"alias,omitempty"`
	// SourceMsgID and SourceTimestamp identify the source message for
	// idempotent re-imports
	SourceMsgID     string    `json:"source_msg_id,omitempty"`
	SourceTimestamp time.Time `json:"source_timestamp,omitempty"`
}

// ImportedMessage is the idempotency view of a previously bridged message
type ImportedMessage struct {
	SourceMsgID string    `json:"source_msg_id"`
	Timestamp   time.Time `json:"timestamp"`
	Alias       string    `json:"alias"`
}

// Service is the destination platform adapter. The bridge only needs a
// narrow surface: room lookup for resolution, posting, the imported-message
// index for dedup and direct notices back to the operating user.
type Service interface {
	// GetRoom resolves a room by ID.
	GetRoom(ctx context.Context, id types.RoomID) (*Room, error)

	// GetRoomMembers lists the members of a room.
	GetRoomMembers(ctx context.Context, id types.RoomID) ([]*User, error)

	// GetRoomByName resolves a room by its name.
	GetRoomByName(ctx context.Context, name string) (*Room, error)

	// GetUserByUsername resolves a user by username. A username nobody
	// holds yields ErrUserNotFound.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// GetDirectRoom returns the direct room between the owner and the named
	// users, creating it if needed. One username yields a 1:1 DM, several a
	// group DM. Fails when any username does not exist on the platform.
	GetDirectRoom(ctx context.Context, owner types.UserID, usernames []string) (*Room, error)

	// PostMessage delivers a bridged message into a room.
	PostMessage(ctx context.Context, msg *OutboundMessage) error

	// ListImported returns the idempotency index of a room: every message
	// previously bridged into it.
	ListImported(ctx context.Context, id types.RoomID) ([]*ImportedMessage, error)

	// NotifyUser sends a private notice to a user, used for command
	// feedback and relay failure reports.
	NotifyUser(ctx context.Context, userID types.UserID, text string) error
}
