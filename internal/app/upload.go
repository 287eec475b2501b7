package app

import (
	"context"
	"fmt"
	"time"

	"driveflow/internal/store"
	"driveflow/internal/youtube"
)

// uploadAndVerify pushes the record's video to YouTube and runs the
// post-upload safety check. The record is mutated and persisted to its
// terminal state: UPLOADED, RESTRICTED or FAILED.
func (s *Service) uploadAndVerify(ctx context.Context, rec *store.Video, immediate bool) error {
	media, err := s.drive.Open(ctx, rec.DriveID)
	if err != nil {
		s.persistFailure(ctx, rec)
		return fmt.Errorf("open drive file: %w", err)
	}
	defer func() { _ = media.Close() }()

	privacy := string(store.VisibilityPrivate)
	if immediate {
		privacy = string(store.VisibilityPublic)
	}

	resp, err := s.uploader.Upload(ctx, youtube.UploadRequest{
		Media:       media,
		Title:       rec.Title,
		Description: rec.Description,
		Tags:        rec.TagList(),
		Privacy:     privacy,
		PublishAt:   rec.ScheduledFor,
	})
	if err != nil {
		s.persistFailure(ctx, rec)
		return fmt.Errorf("upload: %w", err)
	}

	rec.YouTubeID = resp.ID
	rec.Visibility = store.Visibility(privacy)
	if rec.ScheduledFor != nil {
		rec.Visibility = store.VisibilityPrivate
	}

	final := s.awaitProcessing(ctx, resp.ID)
	now := time.Now().UTC()
	rec.CopyrightCheckedAt = &now

	if final != nil && s.restricted(*final) {
		if err := s.uploader.SetVisibility(ctx, resp.ID, string(store.VisibilityPrivate)); err != nil {
			s.logger.Warn("failed to force restricted video private",
				"youtubeID", resp.ID, "error", err)
		}
		rec.Status = store.StatusRestricted
		rec.Visibility = store.VisibilityPrivate
		rec.CopyrightStatus = store.CopyrightClaimed
		rec.ScheduledFor = nil
	} else {
		rec.Status = store.StatusUploaded
		rec.CopyrightStatus = store.CopyrightClear
		rec.UploadedAt = &now
	}

	if err := s.videos.Update(ctx, rec); err != nil {
		return fmt.Errorf("persist upload result: %w", err)
	}

	s.archiveRecord(ctx, rec)
	return nil
}

// awaitProcessing polls the platform until processing reaches a
// terminal state or the attempt budget runs out, then performs one
// final read. Poll errors are tolerated; the last successful read wins.
// Returns nil only if every read failed.
func (s *Service) awaitProcessing(ctx context.Context, youtubeID string) *youtube.Status {
	interval := time.Duration(s.cfg.Safety.PollSeconds) * time.Second
	attempts := s.cfg.Safety.PollAttempts

	var last *youtube.Status
	for i := 0; i < attempts; i++ {
		status, err := s.uploader.Status(ctx, youtubeID)
		if err != nil {
			s.logger.Warn("status poll failed", "youtubeID", youtubeID, "error", err)
		} else {
			last = status
			if status.Terminal() {
				break
			}
		}
		if err := s.sleep(ctx, interval); err != nil {
			break
		}
	}

	if status, err := s.uploader.Status(ctx, youtubeID); err == nil {
		last = status
	}
	return last
}

func (s *Service) persistFailure(ctx context.Context, rec *store.Video) {
	rec.Status = store.StatusFailed
	if err := s.videos.Update(ctx, rec); err != nil {
		s.logger.Error("failed to persist FAILED status",
			"driveID", rec.DriveID, "error", err)
	}
}

// archiveRecord is best effort. Archival failures never fail a run.
func (s *Service) archiveRecord(ctx context.Context, rec *store.Video) {
	if s.archiver == nil {
		return
	}
	if err := s.archiver.StoreRecord(ctx, rec); err != nil {
		s.logger.Warn("failed to archive record",
			"driveID", rec.DriveID, "error", err)
	}
}
