package app

import (
	"context"
	"errors"
	"fmt"

	"driveflow/internal/drive"
	"driveflow/internal/store"
)

// candidate is a discovered Drive file together with the record already
// held for it, if any. A draft record makes the candidate eligible for
// in-place promotion on the upload path.
type candidate struct {
	file     drive.File
	existing *store.Video
}

// discover resolves a sharing link and returns the files not yet
// claimed by an in-flight or terminal record, capped at limit.
// UPLOADED, PROCESSING and PENDING records always exclude a file; DRAFT
// records exclude it only on draft scans, so repeated scans do not
// re-draft but an upload run can promote existing drafts.
func (s *Service) discover(ctx context.Context, owner, link string, draftOnly bool, limit int) ([]candidate, error) {
	id := drive.ResolveLink(link)
	if id == "" {
		return nil, fmt.Errorf("invalid drive link %q", link)
	}

	meta, err := s.drive.Metadata(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch drive target: %w", err)
	}

	var files []drive.File
	switch {
	case meta.IsFolder():
		files, err = s.drive.ListVideos(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("list videos: %w", err)
		}
	case meta.IsVideo():
		files = []drive.File{*meta}
	default:
		return nil, fmt.Errorf("drive target %q is neither a folder nor a video", meta.Name)
	}

	excluded := map[store.Status]bool{
		store.StatusUploaded:   true,
		store.StatusProcessing: true,
		store.StatusPending:    true,
	}
	if draftOnly {
		excluded[store.StatusDraft] = true
	}

	candidates := make([]candidate, 0, len(files))
	for _, f := range files {
		if limit > 0 && len(candidates) >= limit {
			break
		}

		existing, err := s.videos.FindByDriveID(ctx, owner, f.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				candidates = append(candidates, candidate{file: f})
				continue
			}
			return nil, fmt.Errorf("look up %s: %w", f.Name, err)
		}
		if excluded[existing.Status] {
			continue
		}
		candidates = append(candidates, candidate{file: f, existing: existing})
	}

	return candidates, nil
}
