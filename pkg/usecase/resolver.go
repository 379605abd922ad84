package usecase

import (
	"context"
	"log/slog"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	slackmodel "github.com/slackline-io/slackline/pkg/domain/model/slack"
	"github.com/slackline-io/slackline/pkg/domain/types"
	"github.com/slackline-io/slackline/pkg/service/hostchat"
	"github.com/slackline-io/slackline/pkg/service/slackapi"
	"github.com/slackline-io/slackline/pkg/utils/logging"
)

// ResolveConversation finds the source conversation that mirrors a
// destination room. Mapping-file overrides win outright; direct rooms are
// matched through the peer's linked identity and everything else by
// normalized name.
func (uc *UseCases) ResolveConversation(ctx context.Context, client slackapi.Service, userID types.UserID, room *hostchat.Room) (*slackmodel.Conversation, error) {
	if id, ok := uc.mapping.ConversationFor(room.Name); ok {
		conv, err := client.ConversationInfo(ctx, id)
		if err != nil {
			return nil, goerr.Wrap(err, "pinned conversation is not reachable", goerr.V("room", room.Name), goerr.V("conversation_id", id))
		}
		return conv, nil
	}

	if room.Kind == hostchat.RoomPublic {
		return nil, goerr.Wrap(ErrUnsupportedRoom, "public rooms are not bridged", goerr.V("room", room.Name))
	}

	conversations, err := client.ListConversations(ctx, slackapi.ConversationTypes)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list conversations")
	}

	if room.Kind == hostchat.RoomDirect {
		return uc.resolveDirect(ctx, client, conversations, userID, room)
	}

	target := slackapi.NormalizeChannelName(room.Name)
	for _, conv := range conversations {
		if conv.Kind != types.KindMultiDirect && conv.Kind != types.KindPrivateChannel {
			continue
		}
		if conv.NameNormalized == target {
			return conv, nil
		}
	}

	return nil, goerr.Wrap(ErrNoConversation, "no conversation shares the room name",
		goerr.V("room", room.Name),
		goerr.V("normalized", target),
	)
}

// resolveDirect matches a destination DM onto a source DM. The DM peer must
// carry a known source identity, either through their own account link or a
// mapping-file entry.
func (uc *UseCases) resolveDirect(ctx context.Context, client slackapi.Service, conversations []*slackmodel.Conversation, userID types.UserID, room *hostchat.Room) (*slackmodel.Conversation, error) {
	members, err := uc.chat.GetRoomMembers(ctx, room.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list room members", goerr.V("room_id", room.ID))
	}
	if len(members) == 0 || len(members) > 2 {
		return nil, goerr.Wrap(ErrNoConversation, "room does not look like a DM",
			goerr.V("room_id", room.ID),
			goerr.V("members", len(members)),
		)
	}

	// A DM with yourself has a single member
	other := members[0]
	for _, m := range members {
		if m.ID != userID {
			other = m
			break
		}
	}

	otherSlackID, err := uc.slackIdentityOf(ctx, client, other)
	if err != nil {
		return nil, err
	}

	for _, conv := range conversations {
		if conv.Kind != types.KindDirect {
			continue
		}
		if conv.OtherUserID == otherSlackID {
			return conv, nil
		}
		if conv.OtherUserID == "" {
			convMembers, err := client.ConversationMembers(ctx, conv.ID)
			if err != nil {
				logging.From(ctx).Warn("Skipping conversation with unreadable membership",
					slog.Any("conversation_id", conv.ID),
					slog.Any("error", err),
				)
				continue
			}
			if len(convMembers) >= 1 && len(convMembers) <= 2 && slices.Contains(convMembers, otherSlackID) {
				return conv, nil
			}
		}
	}

	return nil, goerr.Wrap(ErrNoConversation, "peer has no matching DM",
		goerr.V("room_id", room.ID),
		goerr.V("peer", other.Username),
	)
}

// slackIdentityOf resolves the source identity of a destination user.
// Mapping-file pins win, then the user's own account link, then a workspace
// directory member sharing the username.
func (uc *UseCases) slackIdentityOf(ctx context.Context, client slackapi.Service, user *hostchat.User) (types.SlackUserID, error) {
	if id, ok := uc.mapping.SlackUserFor(user.Username); ok {
		return id, nil
	}

	account, err := uc.repo.GetAccount(ctx, user.ID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to look up peer account", goerr.V("user_id", user.ID))
	}
	if account.SlackUserID != "" {
		return account.SlackUserID, nil
	}

	workspaceUsers, err := client.WorkspaceUsers(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list workspace users")
	}
	for _, wu := range workspaceUsers {
		if wu.Name == user.Username {
			return wu.ID, nil
		}
	}

	return "", goerr.Wrap(ErrNoConversation, "peer has no source identity", goerr.V("username", user.Username))
}
