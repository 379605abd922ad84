package model

import (
	"time"

	"github.com/slackline-io/slackline/pkg/domain/types"
)

// LinkedAccount ties a destination-platform user to a source-workspace
// identity, access token and sync preference. One record per local user; a
// user who never authorized has an empty record.
type LinkedAccount struct {
	UserID      types.UserID      `firestore:"user_id" json:"user_id"`
	SlackUserID types.SlackUserID `firestore:"slack_user_id" json:"slack_user_id"`
	AccessToken string            `firestore:"access_token" json:"access_token" masq:"secret"`
	SyncEnabled bool              `firestore:"sync_enabled" json:"sync_enabled"`
	UpdatedAt   time.Time         `firestore:"updated_at" json:"updated_at"`
}

// Linked reports whether the account holds a usable access token
func (x *LinkedAccount) Linked() bool {
	return x.AccessToken != ""
}

// AccountPatch is a partial update of a LinkedAccount. Nil fields are left
// untouched; non-nil fields overwrite, including explicit resets to the zero
// value (e.g. clearing the token on logout).
type AccountPatch struct {
	SlackUserID *types.SlackUserID
	AccessToken *string
	SyncEnabled *bool
}

// Apply merges the patch into the account and stamps UpdatedAt. The merge is
// last-write-wins at the record level: callers read, apply, and write back
// the whole record with no concurrency token.
func (x *LinkedAccount) Apply(patch AccountPatch, now time.Time) {
	if patch.SlackUserID != nil {
		x.SlackUserID = *patch.SlackUserID
	}
	if patch.AccessToken != nil {
		x.AccessToken = *patch.AccessToken
	}
	if patch.SyncEnabled != nil {
		x.SyncEnabled = *patch.SyncEnabled
	}
	x.UpdatedAt = now
}

// Ptr returns a pointer to v. Helper for building AccountPatch literals.
func Ptr[T any](v T) *T {
	return &v
}
