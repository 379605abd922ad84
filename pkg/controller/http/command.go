package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/types"
	"github.com/slackline-io/slackline/pkg/usecase"
	"github.com/slackline-io/slackline/pkg/utils/errutil"
	"github.com/slackline-io/slackline/pkg/utils/safe"
)

type commandRequest struct {
	UserID types.UserID `json:"user_id"`
	RoomID types.RoomID `json:"room_id"`
	Text   string       `json:"text"`
}

type commandResponse struct {
	Text string `json:"text"`
}

// commandHandler serves the destination platform's outgoing command hook
func (s *Server) commandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if s.commandToken != "" {
			if r.Header.Get("Authorization") != "Bearer "+s.commandToken {
				errutil.HandleHTTP(ctx, w, goerr.New("invalid command token"), http.StatusUnauthorized)
				return
			}
		}

		var req commandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode command request"), http.StatusBadRequest)
			return
		}
		if req.UserID == "" || req.RoomID == "" {
			errutil.HandleHTTP(ctx, w, goerr.New("user_id and room_id are required"), http.StatusBadRequest)
			return
		}

		reply, err := s.uc.HandleCommand(ctx, &usecase.Command{
			UserID: req.UserID,
			RoomID: req.RoomID,
			Text:   req.Text,
		})
		if err != nil {
			errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		resp, _ := json.Marshal(commandResponse{Text: reply})
		safe.Write(ctx, w, resp)
	}
}
