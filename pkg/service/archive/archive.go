package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slackline-io/slackline/pkg/domain/model"
	"google.golang.org/api/option"
)

// Service persists import run reports for later inspection
type Service interface {
	SaveReport(ctx context.Context, report *model.ImportReport) error
}

// gcs writes reports as JSON objects into a Cloud Storage bucket
type gcs struct {
	client *storage.Client
	bucket string
}

var _ Service = &gcs{}

// New creates a Cloud Storage backed archive
func New(ctx context.Context, bucket string, opts ...option.ClientOption) (Service, error) {
	if bucket == "" {
		return nil, goerr.New("archive bucket is required")
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return &gcs{client: client, bucket: bucket}, nil
}

func (x *gcs) SaveReport(ctx context.Context, report *model.ImportReport) error {
	key := fmt.Sprintf("imports/%s/%s.json", report.RoomID, report.RunID)

	w := x.client.Bucket(x.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "application/json"

	if err := json.NewEncoder(w).Encode(report); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to encode import report", goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to write import report", goerr.V("key", key), goerr.V("bucket", x.bucket))
	}

	return nil
}

// Discard is a no-op archive used when no bucket is configured
type Discard struct{}

var _ Service = Discard{}

func (Discard) SaveReport(ctx context.Context, report *model.ImportReport) error {
	return nil
}
