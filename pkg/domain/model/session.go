package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

// LoginSession binds a pending OAuth authorization attempt to a local user.
// Sessions are not expired and not invalidated after use; CreatedAt is
// recorded so a TTL can be enforced in one place later.
type LoginSession struct {
	ID        types.LoginID `firestore:"id" json:"id"`
	UserID    types.UserID  `firestore:"user_id" json:"user_id"`
	CreatedAt time.Time     `firestore:"created_at" json:"created_at"`
}

// NewLoginSession issues a session with a fresh random login ID
func NewLoginSession(userID types.UserID) *LoginSession {
	return &LoginSession{
		ID:        types.NewLoginID(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the session is well-formed
func (x *LoginSession) Validate() error {
	if err := x.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid login session")
	}
	if err := x.UserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid login session")
	}
	return nil
}
