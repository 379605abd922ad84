package firestore

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/model"
	"github.com/slackline-io/slackline/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// slackIdentity is the stored source-identity → local-user mapping. The
// document ID is the Slack user ID.
type slackIdentity struct {
	SlackUserID types.SlackUserID `firestore:"slack_user_id"`
	UserID      types.UserID      `firestore:"user_id"`
}

func (x *Firestore) getAccount(ctx context.Context, userID types.UserID) (*model.LinkedAccount, error) {
	docRef := x.collection(accountsCollection).Doc(userID.String())
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &model.LinkedAccount{UserID: userID}, nil
		}
		return nil, goerr.Wrap(err, "failed to get account from firestore", goerr.V("user_id", userID))
	}

	var account model.LinkedAccount
	if err := doc.DataTo(&account); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal account", goerr.V("user_id", userID))
	}

	return &account, nil
}

func (x *Firestore) GetAccount(ctx context.Context, userID types.UserID) (*model.LinkedAccount, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID")
	}

	return x.getAccount(ctx, userID)
}

func (x *Firestore) UpdateAccount(ctx context.Context, userID types.UserID, patch model.AccountPatch) (*model.LinkedAccount, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID")
	}

	account, err := x.getAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	account.Apply(patch, time.Now().UTC())

	docRef := x.collection(accountsCollection).Doc(userID.String())
	if _, err := docRef.Set(ctx, account); err != nil {
		return nil, goerr.Wrap(err, "failed to put account to firestore", goerr.V("user_id", userID))
	}

	return account, nil
}

func (x *Firestore) PutSlackIdentity(ctx context.Context, slackUserID types.SlackUserID, userID types.UserID) error {
	if err := slackUserID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid slack user ID")
	}
	if err := userID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user ID")
	}

	docRef := x.collection(identitiesCollection).Doc(slackUserID.String())
	if _, err := docRef.Set(ctx, &slackIdentity{SlackUserID: slackUserID, UserID: userID}); err != nil {
		return goerr.Wrap(err, "failed to put slack identity to firestore", goerr.V("slack_user_id", slackUserID))
	}

	return nil
}

func (x *Firestore) GetAccountBySlackID(ctx context.Context, slackUserID types.SlackUserID) (*model.LinkedAccount, error) {
	if err := slackUserID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid slack user ID")
	}

	docRef := x.collection(identitiesCollection).Doc(slackUserID.String())
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "slack identity not linked", goerr.V("slack_user_id", slackUserID))
		}
		return nil, goerr.Wrap(err, "failed to get slack identity from firestore", goerr.V("slack_user_id", slackUserID))
	}

	var identity slackIdentity
	if err := doc.DataTo(&identity); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal slack identity", goerr.V("slack_user_id", slackUserID))
	}

	return x.getAccount(ctx, identity.UserID)
}
