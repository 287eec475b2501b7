package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"cloud.google.com/go/storage"

	sto "driveflow/internal/store"
)

type GCSArchiver struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ Archiver = (*GCSArchiver)(nil)

func NewGCSArchiver(ctx context.Context, bucket, prefix string) (*GCSArchiver, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	if prefix == "" {
		prefix = "records"
	}

	return &GCSArchiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (a *GCSArchiver) Close() error {
	return a.client.Close()
}

// StoreRecord writes the record as JSON to
// gs://<bucket>/<prefix>/<driveID>.json, overwriting older versions of
// the same record.
func (a *GCSArchiver) StoreRecord(ctx context.Context, video *sto.Video) error {
	data, err := json.MarshalIndent(video, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	name := path.Join(a.prefix, video.DriveID+".json")
	w := a.client.Bucket(a.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write record: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("upload record: %w", err)
	}

	return nil
}
