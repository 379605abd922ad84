package interfaces

import (
	"context"

	"github.com/slackline-io/slackline/pkg/domain/model"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

// Repository is the durable identity store of the bridge. It owns linked
// accounts, pending login sessions and the source-identity mapping; no other
// component persists state.
type Repository interface {
	// GetAccount returns the account record for the user. A user that was
	// never touched gets an empty record, never an error.
	GetAccount(ctx context.Context, userID types.UserID) (*model.LinkedAccount, error)

	// UpdateAccount merges the patch into the stored record (read, apply,
	// replace). Unspecified fields are retained; concurrent updates are
	// last-write-wins with no detection.
	UpdateAccount(ctx context.Context, userID types.UserID, patch model.AccountPatch) (*model.LinkedAccount, error)

	// PutLoginSession persists a pending authorization session. Last write
	// wins on login-ID collision.
	PutLoginSession(ctx context.Context, session *model.LoginSession) error

	// GetLoginSession resolves a login ID; unknown IDs yield the backend's
	// ErrNotFound and are treated as invalid/expired sessions.
	GetLoginSession(ctx context.Context, loginID types.LoginID) (*model.LoginSession, error)

	// PutSlackIdentity records the source-identity → local-user mapping.
	PutSlackIdentity(ctx context.Context, slackUserID types.SlackUserID, userID types.UserID) error

	// GetAccountBySlackID resolves an event sender without a remote lookup.
	// Yields the backend's ErrNotFound when the identity was never linked.
	GetAccountBySlackID(ctx context.Context, slackUserID types.SlackUserID) (*model.LinkedAccount, error)

	Close() error
}
