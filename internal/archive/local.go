package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"driveflow/internal/store"
)

// LocalArchiver writes records to a directory on disk. Used when no GCS
// bucket is configured.
type LocalArchiver struct {
	dir string
}

var _ Archiver = (*LocalArchiver)(nil)

func NewLocalArchiver(dir string) *LocalArchiver {
	return &LocalArchiver{dir: dir}
}

func (a *LocalArchiver) StoreRecord(_ context.Context, video *store.Video) error {
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	data, err := json.MarshalIndent(video, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	path := filepath.Join(a.dir, video.DriveID+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}

	return nil
}
