package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/model"
	slackmodel "github.com/slackline-io/slackline/pkg/domain/model/slack"
	"github.com/slackline-io/slackline/pkg/domain/types"
	"github.com/slackline-io/slackline/pkg/repository/firestore"
	"github.com/slackline-io/slackline/pkg/repository/memory"
	"github.com/slackline-io/slackline/pkg/utils/errutil"
	"github.com/slackline-io/slackline/pkg/utils/logging"
)

// BeginLogin opens an authorization attempt for the user and returns the
// URL they must visit. The session ID rides along as the OAuth state.
func (uc *UseCases) BeginLogin(ctx context.Context, userID types.UserID) (string, error) {
	session := model.NewLoginSession(userID)
	if err := uc.repo.PutLoginSession(ctx, session); err != nil {
		return "", goerr.Wrap(err, "failed to store login session")
	}

	logging.From(ctx).Info("Login started",
		slog.Any("user_id", userID),
		slog.Any("login_id", session.ID),
	)

	return uc.authz.AuthorizeURL(session.ID), nil
}

// HandleCallback completes the authorization: the state parameter is
// matched against a pending session, the code is exchanged for a token and
// the account is linked. Returns the linked account and the workspace
// identity of its owner.
func (uc *UseCases) HandleCallback(ctx context.Context, state types.LoginID, code string) (*model.LinkedAccount, *slackmodel.User, error) {
	session, err := uc.repo.GetLoginSession(ctx, state)
	if err != nil {
		if errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound) {
			return nil, nil, goerr.Wrap(ErrInvalidLogin, "state does not match a pending session")
		}
		return nil, nil, goerr.Wrap(err, "failed to resolve login session")
	}

	grant, err := uc.authz.ExchangeCode(ctx, code)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to exchange authorization code", goerr.V("user_id", session.UserID))
	}

	account, err := uc.repo.UpdateAccount(ctx, session.UserID, model.AccountPatch{
		SlackUserID: model.Ptr(grant.SlackUserID),
		AccessToken: model.Ptr(grant.AccessToken),
	})
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to link account", goerr.V("user_id", session.UserID))
	}

	if err := uc.repo.PutSlackIdentity(ctx, grant.SlackUserID, session.UserID); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to record identity mapping", goerr.V("user_id", session.UserID))
	}

	client, err := uc.newSlackClient(grant.AccessToken)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to build API client")
	}
	me, err := client.MyInfo(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to fetch workspace identity", goerr.V("user_id", session.UserID))
	}

	logging.From(ctx).Info("Account linked",
		slog.Any("user_id", session.UserID),
		slog.Any("slack_user_id", grant.SlackUserID),
	)

	// Best-effort notice in the user's chat client; the browser page is the
	// primary confirmation.
	notice := "Hello " + me.DisplayName + ", your workspace account is now linked."
	errutil.Handle(ctx, uc.chat.NotifyUser(ctx, session.UserID, notice), "failed to notify user of link")

	return account, me, nil
}

// SetSyncEnabled toggles live relay for a user. Enabling requires a linked
// token; disabling always succeeds.
func (uc *UseCases) SetSyncEnabled(ctx context.Context, userID types.UserID, enabled bool) error {
	if enabled {
		account, err := uc.repo.GetAccount(ctx, userID)
		if err != nil {
			return err
		}
		if !account.Linked() {
			return goerr.Wrap(ErrNotLinked, "cannot enable sync without a token", goerr.V("user_id", userID))
		}
	}

	if _, err := uc.repo.UpdateAccount(ctx, userID, model.AccountPatch{
		SyncEnabled: model.Ptr(enabled),
	}); err != nil {
		return goerr.Wrap(err, "failed to update sync flag", goerr.V("user_id", userID))
	}

	return nil
}

// Logout revokes the link: the token is cleared and relay is switched off
// in the same update so a later re-login starts from a clean slate.
func (uc *UseCases) Logout(ctx context.Context, userID types.UserID) error {
	if _, err := uc.repo.UpdateAccount(ctx, userID, model.AccountPatch{
		AccessToken: model.Ptr(""),
		SyncEnabled: model.Ptr(false),
	}); err != nil {
		return goerr.Wrap(err, "failed to clear account", goerr.V("user_id", userID))
	}

	logging.From(ctx).Info("Account logged out", slog.Any("user_id", userID))
	return nil
}
