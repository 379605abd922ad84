package firestore

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/model"
	"github.com/slackline-io/slackline/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (x *Firestore) PutLoginSession(ctx context.Context, session *model.LoginSession) error {
	if err := session.Validate(); err != nil {
		return goerr.Wrap(err, "invalid login session")
	}

	docRef := x.collection(sessionsCollection).Doc(session.ID.String())
	if _, err := docRef.Set(ctx, session); err != nil {
		return goerr.Wrap(err, "failed to put login session to firestore", goerr.V("login_id", session.ID))
	}

	return nil
}

func (x *Firestore) GetLoginSession(ctx context.Context, loginID types.LoginID) (*model.LoginSession, error) {
	if err := loginID.Validate(); err != nil {
		return nil, goerr.Wrap(ErrNotFound, "malformed login ID", goerr.V("login_id", loginID))
	}

	docRef := x.collection(sessionsCollection).Doc(loginID.String())
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "unknown login session", goerr.V("login_id", loginID))
		}
		return nil, goerr.Wrap(err, "failed to get login session from firestore", goerr.V("login_id", loginID))
	}

	var session model.LoginSession
	if err := doc.DataTo(&session); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal login session", goerr.V("login_id", loginID))
	}

	return &session, nil
}
