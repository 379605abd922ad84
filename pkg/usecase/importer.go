package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/model"
	slackmodel "github.com/slackline-io/slackline/pkg/domain/model/slack"
	"github.com/slackline-io/slackline/pkg/domain/types"
	"github.com/slackline-io/slackline/pkg/service/hostchat"
	"github.com/slackline-io/slackline/pkg/utils/errutil"
	"github.com/slackline-io/slackline/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// dedupKey is the fallback identity of a message without a client message
// ID: its second-truncated timestamp plus the posting alias.
func dedupKey(ts time.Time, alias string) string {
	return fmt.Sprintf("%d|%s", ts.Unix(), alias)
}

func importAlias(user *slackmodel.User) string {
	return user.Name + " (slack)"
}

// Import copies the full history of the source conversation mirroring the
// given room into that room. The run is idempotent: messages already
// bridged are recognized by their source message ID, or failing that by
// timestamp and alias, and skipped. Delivery order across workers is not
// guaranteed; the destination orders by the carried source timestamp.
func (uc *UseCases) Import(ctx context.Context, userID types.UserID, roomID types.RoomID) (*model.ImportReport, error) {
	account, err := uc.repo.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !account.Linked() {
		return nil, goerr.Wrap(ErrNotLinked, "import requires a linked account", goerr.V("user_id", userID))
	}

	room, err := uc.chat.GetRoom(ctx, roomID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve room", goerr.V("room_id", roomID))
	}

	client, err := uc.newSlackClient(account.AccessToken)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build API client")
	}

	conv, err := uc.ResolveConversation(ctx, client, userID, room)
	if err != nil {
		return nil, err
	}

	history, err := client.FullHistory(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	workspaceUsers, err := client.WorkspaceUsers(ctx)
	if err != nil {
		return nil, err
	}
	usersByID := make(map[types.SlackUserID]*slackmodel.User, len(workspaceUsers))
	for _, u := range workspaceUsers {
		usersByID[u.ID] = u
	}

	seenMsgID, seenFallback, err := uc.importedIndex(ctx, roomID)
	if err != nil {
		return nil, err
	}

	report := model.NewImportReport(userID, roomID)
	report.ConversationID = conv.ID

	// Classification is sequential so the dedup sets also cover messages
	// queued earlier in this run; only delivery fans out.
	type outbound struct {
		msg   *slackmodel.Message
		alias string
	}
	var queue []*outbound
	var ignored int

	localUsers := map[string]bool{}
	for _, msg := range history {
		author, known := usersByID[msg.AuthorID]
		if msg.AuthorID == "" || !known {
			ignored++
			continue
		}
		if msg.Text == "" {
			ignored++
			continue
		}

		// The author must also exist on the destination under the same
		// username
		hasLocal, checked := localUsers[author.Name]
		if !checked {
			switch _, err := uc.chat.GetUserByUsername(ctx, author.Name); {
			case err == nil:
				hasLocal = true
			case errors.Is(err, hostchat.ErrUserNotFound):
				hasLocal = false
			default:
				return nil, goerr.Wrap(err, "failed to look up author", goerr.V("username", author.Name))
			}
			localUsers[author.Name] = hasLocal
		}
		if !hasLocal {
			ignored++
			continue
		}

		alias := importAlias(author)
		if msg.ClientMsgID != "" {
			if _, dup := seenMsgID[msg.ClientMsgID]; dup {
				ignored++
				continue
			}
			seenMsgID[msg.ClientMsgID] = struct{}{}
		}
		key := dedupKey(msg.Time(), alias)
		if _, dup := seenFallback[key]; dup {
			ignored++
			continue
		}
		seenFallback[key] = struct{}{}

		queue = append(queue, &outbound{msg: msg, alias: alias})
	}

	var processed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.importConcurrency)

	for _, item := range queue {
		g.Go(func() error {
			if err := uc.chat.PostMessage(gctx, &hostchat.OutboundMessage{
				RoomID:          roomID,
				Text:            item.msg.Text,
				Alias:           item.alias,
				SourceMsgID:     item.msg.ClientMsgID,
				SourceTimestamp: item.msg.Time(),
			}); err != nil {
				return goerr.Wrap(err, "failed to deliver message",
					goerr.V("room_id", roomID),
					goerr.V("source_ts", item.msg.Timestamp),
				)
			}

			processed.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Processed = int(processed.Load())
	report.Ignored = ignored
	report.FinishedAt = time.Now().UTC()

	// Archiving is best effort; a failed report never fails the run
	errutil.Handle(ctx, uc.archive.SaveReport(ctx, report), "failed to archive import report")

	logging.From(ctx).Info("Import finished",
		slog.Any("room_id", roomID),
		slog.Any("conversation_id", conv.ID),
		slog.Int("processed", report.Processed),
		slog.Int("ignored", report.Ignored),
	)

	return report, nil
}

// importedIndex builds the dedup sets from messages already present in the
// room.
func (uc *UseCases) importedIndex(ctx context.Context, roomID types.RoomID) (map[string]struct{}, map[string]struct{}, error) {
	imported, err := uc.chat.ListImported(ctx, roomID)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to list imported messages", goerr.V("room_id", roomID))
	}

	byMsgID := make(map[string]struct{}, len(imported))
	byFallback := make(map[string]struct{}, len(imported))
	for _, m := range imported {
		if m.SourceMsgID != "" {
			byMsgID[m.SourceMsgID] = struct{}{}
		}
		if !m.Timestamp.IsZero() {
			byFallback[dedupKey(m.Timestamp, m.Alias)] = struct{}{}
		}
	}

	return byMsgID, byFallback, nil
}
