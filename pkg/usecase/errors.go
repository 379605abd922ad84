package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the use case layer
var (
	// ErrNotLinked means the user has no workspace token yet
	ErrNotLinked = goerr.New("account is not linked")

	// ErrInvalidLogin means the OAuth state did not match a pending session
	ErrInvalidLogin = goerr.New("unknown or expired login session")

	// ErrNoConversation means no source conversation corresponds to the room
	ErrNoConversation = goerr.New("no matching source conversation")

	// ErrUnsupportedRoom means the room type is never bridged (public rooms)
	ErrUnsupportedRoom = goerr.New("room type is not supported")
)
