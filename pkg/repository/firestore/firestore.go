package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = goerr.New("record not found")

const (
	accountsCollection   = "accounts"
	sessionsCollection   = "login_sessions"
	identitiesCollection = "slack_identities"
)

type Firestore struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes all collection names, e.g. for isolating
// test runs against a shared project.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	f := &Firestore{client: client}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (x *Firestore) collection(name string) *firestore.CollectionRef {
	return x.client.Collection(x.collectionPrefix + name)
}

func (x *Firestore) Close() error {
	if x.client != nil {
		return x.client.Close()
	}
	return nil
}
