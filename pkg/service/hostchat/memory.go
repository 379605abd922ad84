package hostchat

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

// Memory is an in-memory Service used for development and tests. Rooms and
// members are seeded up front; posted messages accumulate and feed the
// imported-message index.
type Memory struct {
	mu            sync.RWMutex
	rooms         map[types.RoomID]*Room
	members       map[types.RoomID][]*User
	users         map[string]*User
	posted        map[types.RoomID][]*OutboundMessage
	notifications map[types.UserID][]string
}

var _ Service = &Memory{}

func NewMemory() *Memory {
	return &Memory{
		rooms:         make(map[types.RoomID]*Room),
		members:       make(map[types.RoomID][]*User),
		users:         make(map[string]*User),
		posted:        make(map[types.RoomID][]*OutboundMessage),
		notifications: make(map[types.UserID][]string),
	}
}

// AddRoom seeds a room and its members. Members are registered as users.
func (x *Memory) AddRoom(room *Room, members ...*User) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.rooms[room.ID] = room
	x.members[room.ID] = members
	for _, member := range members {
		x.users[member.Username] = member
	}
}

// AddUser seeds a user without room membership
func (x *Memory) AddUser(user *User) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.users[user.Username] = user
}

// Posted returns all messages delivered to a room
func (x *Memory) Posted(id types.RoomID) []*OutboundMessage {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return append([]*OutboundMessage{}, x.posted[id]...)
}

// Notifications returns all notices sent to a user
func (x *Memory) Notifications(userID types.UserID) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return append([]string{}, x.notifications[userID]...)
}

func (x *Memory) GetRoom(ctx context.Context, id types.RoomID) (*Room, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	room, ok := x.rooms[id]
	if !ok {
		return nil, goerr.New("room not found", goerr.V("room_id", id))
	}
	copied := *room
	return &copied, nil
}

func (x *Memory) GetRoomMembers(ctx context.Context, id types.RoomID) ([]*User, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if _, ok := x.rooms[id]; !ok {
		return nil, goerr.New("room not found", goerr.V("room_id", id))
	}
	return append([]*User{}, x.members[id]...), nil
}

func (x *Memory) GetRoomByName(ctx context.Context, name string) (*Room, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	for _, room := range x.rooms {
		if room.Name == name {
			copied := *room
			return &copied, nil
		}
	}
	return nil, goerr.New("room not found", goerr.V("name", name))
}

func (x *Memory) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	user, ok := x.users[username]
	if !ok {
		return nil, goerr.Wrap(ErrUserNotFound, "no user holds the username", goerr.V("username", username))
	}
	copied := *user
	return &copied, nil
}

func (x *Memory) GetDirectRoom(ctx context.Context, owner types.UserID, usernames []string) (*Room, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	for _, name := range usernames {
		if _, ok := x.users[name]; !ok {
			return nil, goerr.Wrap(ErrUserNotFound, "direct room member does not exist", goerr.V("username", name))
		}
	}

	key := directRoomKey(owner, usernames)
	if room, ok := x.rooms[key]; ok {
		copied := *room
		return &copied, nil
	}

	room := &Room{
		ID:   key,
		Name: strings.Join(usernames, ","),
		Kind: RoomDirect,
	}
	x.rooms[key] = room

	copied := *room
	return &copied, nil
}

func directRoomKey(owner types.UserID, usernames []string) types.RoomID {
	sorted := append([]string{}, usernames...)
	sort.Strings(sorted)
	return types.RoomID("direct:" + owner.String() + ":" + strings.Join(sorted, ","))
}

func (x *Memory) PostMessage(ctx context.Context, msg *OutboundMessage) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.rooms[msg.RoomID]; !ok {
		return goerr.New("room not found", goerr.V("room_id", msg.RoomID))
	}
	copied := *msg
	x.posted[msg.RoomID] = append(x.posted[msg.RoomID], &copied)
	return nil
}

func (x *Memory) ListImported(ctx context.Context, id types.RoomID) ([]*ImportedMessage, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	var imported []*ImportedMessage
	for _, msg := range x.posted[id] {
		if msg.SourceMsgID == "" && msg.SourceTimestamp.IsZero() {
			continue
		}
		imported = append(imported, &ImportedMessage{
			SourceMsgID: msg.SourceMsgID,
			Timestamp:   msg.SourceTimestamp,
			Alias:       msg.Alias,
		})
	}
	return imported, nil
}

func (x *Memory) NotifyUser(ctx context.Context, userID types.UserID, text string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.notifications[userID] = append(x.notifications[userID], text)
	return nil
}
