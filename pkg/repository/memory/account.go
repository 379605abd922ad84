package memory

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/model"
	"github.com/slackline-io/slackline/pkg/domain/types"
)

func copyAccount(a *model.LinkedAccount) *model.LinkedAccount {
	copied := *a
	return &copied
}

func (x *Memory) GetAccount(ctx context.Context, userID types.UserID) (*model.LinkedAccount, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID")
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if account, ok := x.accounts[userID]; ok {
		return copyAccount(account), nil
	}

	return &model.LinkedAccount{UserID: userID}, nil
}

func (x *Memory) UpdateAccount(ctx context.Context, userID types.UserID, patch model.AccountPatch) (*model.LinkedAccount, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID")
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	account, ok := x.accounts[userID]
	if !ok {
		account = &model.LinkedAccount{UserID: userID}
	}

	merged := copyAccount(account)
	merged.Apply(patch, time.Now().UTC())
	x.accounts[userID] = merged

	return copyAccount(merged), nil
}

func (x *Memory) PutSlackIdentity(ctx context.Context, slackUserID types.SlackUserID, userID types.UserID) error {
	if err := slackUserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid slack user ID")
	}
	if err := userID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user ID")
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	x.identities[slackUserID] = userID
	return nil
}

func (x *Memory) GetAccountBySlackID(ctx context.Context, slackUserID types.SlackUserID) (*model.LinkedAccount, error) {
	if err := slackUserID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid slack user ID")
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	userID, ok := x.identities[slackUserID]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "slack identity not linked", goerr.V("slack_user_id", slackUserID))
	}

	if account, ok := x.accounts[userID]; ok {
		return copyAccount(account), nil
	}
	return &model.LinkedAccount{UserID: userID}, nil
}
