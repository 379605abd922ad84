package model

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

// Mapping carries operator-provided overrides for channel resolution.
// Rooms listed here bypass name matching entirely, and user entries pin a
// local username to a source identity without an account link.
type Mapping struct {
	// Rooms maps a destination room name to a source conversation ID
	Rooms map[string]types.ConversationID `toml:"rooms"`
	// Users maps a destination username to a source user ID
	Users map[string]types.SlackUserID `toml:"users"`
}

// LoadMapping reads a TOML mapping file
func LoadMapping(path string) (*Mapping, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read mapping file", goerr.V("path", path))
	}

	var mapping Mapping
	if err := toml.Unmarshal(raw, &mapping); err != nil {
		return nil, goerr.Wrap(err, "failed to parse mapping file", goerr.V("path", path))
	}

	return &mapping, nil
}

// ConversationFor returns the pinned conversation for a room name
func (x *Mapping) ConversationFor(roomName string) (types.ConversationID, bool) {
	if x == nil {
		return "", false
	}
	id, ok := x.Rooms[roomName]
	return id, ok
}

// SlackUserFor returns the pinned source identity for a username
func (x *Mapping) SlackUserFor(username string) (types.SlackUserID, bool) {
	if x == nil {
		return "", false
	}
	id, ok := x.Users[username]
	return id, ok
}
