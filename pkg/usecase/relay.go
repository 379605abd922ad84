package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	slackmodel "github.com/slackline-io/slackline/pkg/domain/model/slack"
	"github.com/slackline-io/slackline/pkg/domain/types"
	"github.com/slackline-io/slackline/pkg/repository/firestore"
	"github.com/slackline-io/slackline/pkg/repository/memory"
	"github.com/slackline-io/slackline/pkg/service/hostchat"
	"github.com/slackline-io/slackline/pkg/service/slackapi"
	"github.com/slackline-io/slackline/pkg/utils/errutil"
	"github.com/slackline-io/slackline/pkg/utils/logging"
)

// RelayInput is one message event from the source workspace together with
// the users the event was delivered for.
type RelayInput struct {
	ConversationID types.ConversationID
	SenderID       types.SlackUserID
	Text           string
	Timestamp      string
	AuthedUsers    []types.SlackUserID
}

// Relay mirrors a live message into the destination room exactly once.
// Recipients are tried in delivery order; the first one with a linked,
// sync-enabled account that can route the event posts it for everyone,
// and a failure for one recipient never blocks the rest.
func (uc *UseCases) Relay(ctx context.Context, input *RelayInput) error {
	if input.Text == "" || input.SenderID == "" {
		return nil
	}

	for _, authed := range input.AuthedUsers {
		posted, err := uc.relayFor(ctx, input, authed)
		if err != nil {
			errutil.Handle(ctx, err, "failed to relay message")
			continue
		}
		if posted {
			return nil
		}
	}

	return nil
}

// relayFor reports whether the event was posted on behalf of the given
// recipient. A false return with no error means the recipient cannot route
// the event and the next one should try.
func (uc *UseCases) relayFor(ctx context.Context, input *RelayInput, authed types.SlackUserID) (bool, error) {
	account, err := uc.repo.GetAccountBySlackID(ctx, authed)
	if err != nil {
		if errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !account.Linked() || !account.SyncEnabled {
		return false, nil
	}
	// The user's own messages are already visible to them at the source
	if input.SenderID == account.SlackUserID {
		return false, nil
	}

	client, err := uc.newSlackClient(account.AccessToken)
	if err != nil {
		return false, goerr.Wrap(err, "failed to build API client")
	}

	conv, err := client.ConversationInfo(ctx, input.ConversationID)
	if err != nil {
		return false, goerr.Wrap(err, "failed to classify conversation", goerr.V("conversation_id", input.ConversationID))
	}

	sender, err := client.UserInfo(ctx, input.SenderID)
	if err != nil {
		return false, goerr.Wrap(err, "failed to resolve sender", goerr.V("sender_id", input.SenderID))
	}

	// The sender needs a local counterpart with the same username
	if _, err := uc.chat.GetUserByUsername(ctx, sender.Name); err != nil {
		if errors.Is(err, hostchat.ErrUserNotFound) {
			logging.From(ctx).Debug("Sender has no local counterpart",
				slog.Any("sender", sender.Name),
			)
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to look up sender", goerr.V("username", sender.Name))
	}

	room, err := uc.relayRoom(ctx, client, account.UserID, account.SlackUserID, conv, sender)
	if err != nil {
		return false, err
	}
	if room == nil {
		logging.From(ctx).Debug("No destination room for event",
			slog.Any("conversation_id", conv.ID),
			slog.Any("kind", conv.Kind),
		)
		return false, nil
	}

	ts := &slackmodel.Message{Timestamp: input.Timestamp}
	if err := uc.chat.PostMessage(ctx, &hostchat.OutboundMessage{
		RoomID:          room.ID,
		Text:            input.Text,
		Alias:           importAlias(sender),
		SourceTimestamp: ts.Time(),
	}); err != nil {
		return false, goerr.Wrap(err, "failed to deliver relayed message", goerr.V("room_id", room.ID))
	}

	return true, nil
}

// relayRoom picks the destination room for a conversation kind. A nil room
// means the event is not routable and is dropped silently.
func (uc *UseCases) relayRoom(ctx context.Context, client slackapi.Service, userID types.UserID, selfID types.SlackUserID, conv *slackmodel.Conversation, sender *slackmodel.User) (*hostchat.Room, error) {
	switch conv.Kind {
	case types.KindDirect:
		room, err := uc.chat.GetDirectRoom(ctx, userID, []string{sender.Name})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open direct room", goerr.V("peer", sender.Name))
		}
		return room, nil

	case types.KindMultiDirect:
		members, err := client.ConversationMembers(ctx, conv.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list conversation members", goerr.V("conversation_id", conv.ID))
		}

		// Group DMs relay only when every participant is known locally
		var usernames []string
		for _, member := range members {
			if member == selfID {
				continue
			}
			user, err := client.UserInfo(ctx, member)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to resolve group member", goerr.V("member", member))
			}
			if _, err := uc.repo.GetAccountBySlackID(ctx, member); err != nil {
				if errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound) {
					return nil, nil
				}
				return nil, err
			}
			usernames = append(usernames, user.Name)
		}
		if len(usernames) == 0 {
			return nil, nil
		}

		room, err := uc.chat.GetDirectRoom(ctx, userID, usernames)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open group room", goerr.V("conversation_id", conv.ID))
		}
		return room, nil

	case types.KindPrivateChannel:
		room, err := uc.chat.GetRoomByName(ctx, conv.NameNormalized)
		if err != nil {
			// A channel without a local counterpart is not an error
			logging.From(ctx).Debug("No room matches channel name",
				slog.Any("name", conv.NameNormalized),
				slog.Any("error", err),
			)
			return nil, nil
		}
		return room, nil

	default:
		return nil, nil
	}
}
