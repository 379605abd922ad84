package types

import (
	"crypto/rand"
	"math/big"

	"github.com/m-mizutani/goerr/v2"
)

// UserID identifies a user on the destination (host) platform
type UserID string

func (x UserID) String() string { return string(x) }

func (x UserID) Validate() error {
	if x == "" {
		return goerr.New("user ID cannot be empty")
	}
	return nil
}

// RoomID identifies a room on the destination platform
type RoomID string

func (x RoomID) String() string { return string(x) }

// SlackUserID identifies a user on the source workspace (e.g. U0123456)
type SlackUserID string

func (x SlackUserID) String() string { return string(x) }

func (x SlackUserID) Validate() error {
	if x == "" {
		return goerr.New("slack user ID cannot be empty")
	}
	return nil
}

// ConversationID identifies a source conversation (e.g. D..., G..., C...)
type ConversationID string

func (x ConversationID) String() string { return string(x) }

// LoginID is the opaque correlation token binding an OAuth attempt to a user.
// It doubles as the OAuth state parameter.
type LoginID string

func (x LoginID) String() string { return string(x) }

func (x LoginID) Validate() error {
	if len(x) < loginIDLength {
		return goerr.New("login ID is too short", goerr.V("id", x))
	}
	return nil
}

// loginIDAlphabet leaves out characters that are easy to confuse (0/O, 1/l/I)
const loginIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
const loginIDLength = 12

// NewLoginID generates a random collision-resistant login ID
func NewLoginID() LoginID {
	buf := make([]byte, loginIDLength)
	max := big.NewInt(int64(len(loginIDAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto/rand unavailable: " + err.Error())
		}
		buf[i] = loginIDAlphabet[n.Int64()]
	}
	return LoginID(buf)
}
