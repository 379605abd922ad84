package http

import (
	"errors"
	"net/http"

	"github.com/slackline-io/slackline/pkg/domain/types"
	"github.com/slackline-io/slackline/pkg/usecase"
	"github.com/slackline-io/slackline/pkg/utils/errutil"
)

// oauthCallbackHandler finishes the authorization flow in the user's
// browser. The page is intentionally plain; the user returns to their chat
// client afterwards.
func (s *Server) oauthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		state := types.LoginID(r.URL.Query().Get("state"))
		code := r.URL.Query().Get("code")

		if state == "" || code == "" {
			renderPage(ctx, w, http.StatusBadRequest, "Invalid link", "The authorization link is malformed. Run the login command again.")
			return
		}

		_, me, err := s.uc.HandleCallback(ctx, state, code)
		if err != nil {
			if errors.Is(err, usecase.ErrInvalidLogin) {
				renderPage(ctx, w, http.StatusBadRequest, "Invalid link", "This authorization link is unknown or has expired. Run the login command again.")
				return
			}
			errutil.Handle(ctx, err, "authorization failed")
			renderPage(ctx, w, http.StatusInternalServerError, "Authorization failed", "Something went wrong while linking your account. Please try again.")
			return
		}

		renderPage(ctx, w, http.StatusOK, "Hello "+me.DisplayName, "Your workspace account is now connected. You can close this window.")
	}
}
