package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/slackline-io/slackline/pkg/domain/types"
)

const usageText = "Usage: login | import | enable | disable | logout"

// Command is a bridge command issued from inside a destination room
type Command struct {
	UserID types.UserID
	RoomID types.RoomID
	Text   string
}

// HandleCommand executes a bridge command and returns the feedback text to
// show the issuing user. Errors that stem from user state, like a missing
// login, are translated into feedback rather than returned.
func (uc *UseCases) HandleCommand(ctx context.Context, cmd *Command) (string, error) {
	verb := strings.ToLower(strings.TrimSpace(cmd.Text))
	if i := strings.IndexByte(verb, ' '); i >= 0 {
		verb = verb[:i]
	}

	switch verb {
	case "login":
		url, err := uc.BeginLogin(ctx, cmd.UserID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Open this link to connect your workspace account: %s", url), nil

	case "import":
		report, err := uc.Import(ctx, cmd.UserID, cmd.RoomID)
		if err != nil {
			if errors.Is(err, ErrNotLinked) {
				return "You must login first", nil
			}
			if errors.Is(err, ErrNoConversation) {
				return "No matching conversation was found for this room", nil
			}
			if errors.Is(err, ErrUnsupportedRoom) {
				return "Only private channels and direct messages are supported", nil
			}
			return "", err
		}
		return fmt.Sprintf("Import finished: %d messages processed, %d ignored", report.Processed, report.Ignored), nil

	case "enable":
		if err := uc.SetSyncEnabled(ctx, cmd.UserID, true); err != nil {
			if errors.Is(err, ErrNotLinked) {
				return "You must login first", nil
			}
			return "", err
		}
		return "Live sync enabled", nil

	case "disable":
		if err := uc.SetSyncEnabled(ctx, cmd.UserID, false); err != nil {
			return "", err
		}
		return "Live sync disabled", nil

	case "logout":
		if err := uc.Logout(ctx, cmd.UserID); err != nil {
			return "", err
		}
		return "Your workspace account has been disconnected", nil

	case "", "help":
		return usageText, nil

	default:
		return usageText, nil
	}
}
