package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack/slackevents"
	"github.com/slackline-io/slackline/pkg/domain/types"
	"github.com/slackline-io/slackline/pkg/usecase"
	"github.com/slackline-io/slackline/pkg/utils/async"
	"github.com/slackline-io/slackline/pkg/utils/errutil"
	"github.com/slackline-io/slackline/pkg/utils/logging"
	"github.com/slackline-io/slackline/pkg/utils/safe"
)

// slackEventHandler receives Events API payloads. URL verification is
// answered inline; message events are acknowledged immediately and relayed
// in the background to stay inside the delivery timeout.
func (s *Server) slackEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
			return
		}

		event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
		if err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse event payload"), http.StatusBadRequest)
			return
		}

		switch event.Type {
		case slackevents.URLVerification:
			var challenge slackevents.ChallengeResponse
			if err := json.Unmarshal(body, &challenge); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to unmarshal challenge"), http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			resp, _ := json.Marshal(map[string]string{"challenge": challenge.Challenge})
			safe.Write(ctx, w, resp)
			return

		case slackevents.CallbackEvent:
			w.WriteHeader(http.StatusOK)

			input := relayInput(&event)
			if input == nil {
				return
			}

			async.Dispatch(ctx, func(ctx context.Context) error {
				return s.uc.Relay(ctx, input)
			})

		default:
			logging.From(ctx).Warn("unknown event type", "type", event.Type)
			w.WriteHeader(http.StatusOK)
		}
	}
}

// relayInput extracts a relayable message from a callback event. Non-message
// events, subtyped messages (edits, joins) and bot posts yield nil.
func relayInput(event *slackevents.EventsAPIEvent) *usecase.RelayInput {
	callback, ok := event.Data.(*slackevents.EventsAPICallbackEvent)
	if !ok {
		return nil
	}

	msg, ok := event.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok {
		return nil
	}
	if msg.SubType != "" || msg.BotID != "" || msg.User == "" {
		return nil
	}

	authed := make([]types.SlackUserID, 0, len(callback.AuthedUsers))
	for _, u := range callback.AuthedUsers {
		authed = append(authed, types.SlackUserID(u))
	}

	return &usecase.RelayInput{
		ConversationID: types.ConversationID(msg.Channel),
		SenderID:       types.SlackUserID(msg.User),
		Text:           msg.Text,
		Timestamp:      msg.TimeStamp,
		AuthedUsers:    authed,
	}
}
