package memory

import (
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/interfaces"
	"github.com/slackline-io/slackline/pkg/domain/model"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = goerr.New("record not found")

// Memory is the in-memory identity store used for development and tests
type Memory struct {
	mu         sync.RWMutex
	accounts   map[types.UserID]*model.LinkedAccount
	sessions   map[types.LoginID]*model.LoginSession
	identities map[types.SlackUserID]types.UserID
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		accounts:   make(map[types.UserID]*model.LinkedAccount),
		sessions:   make(map[types.LoginID]*model.LoginSession),
		identities: make(map[types.SlackUserID]types.UserID),
	}
}

func (x *Memory) Close() error {
	return nil
}
