package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/model"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

func (x *Memory) PutLoginSession(ctx context.Context, session *model.LoginSession) error {
	if err := session.Validate(); err != nil {
		return goerr.Wrap(err, "invalid login session")
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	copied := *session
	x.sessions[session.ID] = &copied
	return nil
}

func (x *Memory) GetLoginSession(ctx context.Context, loginID types.LoginID) (*model.LoginSession, error) {
	if err := loginID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrNotFound, "malformed login ID", goerr.V("login_id", loginID))
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	session, ok := x.sessions[loginID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "unknown login session", goerr.V("login_id", loginID))
	}

	copied := *session
	return &copied, nil
}
