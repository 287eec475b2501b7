package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"driveflow/internal/metadata"
	"driveflow/internal/store"
	"driveflow/internal/youtube"
)

type RunParams struct {
	Owner string
	Link  string
	Limit int
	// UploadHour is the publish hour in UTC. Negative means use the
	// configured default.
	UploadHour   int
	VideosPerDay int
	DraftOnly    bool
	// Immediate publishes public right away instead of scheduling.
	Immediate bool
	// ScheduleAt overrides the computed slot when set.
	ScheduleAt *time.Time
	JobID      string
}

type Detail struct {
	FileName  string
	Status    string
	YouTubeID string
	Err       string
}

// Result aggregates one automation run. Processed counts every
// candidate attempted, including drafts and skips; Uploaded and Failed
// only count actual upload attempts.
type Result struct {
	Processed int
	Uploaded  int
	Failed    int
	Errors    []string
	Details   []Detail
}

// RunAutomation performs one bounded batch: discover candidates,
// generate metadata, persist records and, unless DraftOnly, upload each
// and verify it is safe. Per-file errors are recorded and isolated;
// only run-level preconditions produce an early return.
func (s *Service) RunAutomation(ctx context.Context, params RunParams) *Result {
	result := &Result{}
	s.applyRunDefaults(&params)

	candidates, err := s.discover(ctx, params.Owner, params.Link, params.DraftOnly, params.Limit)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	if len(candidates) == 0 {
		result.Errors = append(result.Errors, "no eligible videos found")
		return result
	}

	scope := store.Scope{OwnerID: params.Owner, JobID: params.JobID}

	for _, cand := range candidates {
		result.Processed++

		scheduleTime, err := s.scheduleTime(ctx, scope, params)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("compute schedule: %v", err))
			break
		}

		gen := s.generator.Generate(ctx, metadata.Source{
			DriveID:  cand.file.ID,
			FileName: cand.file.Name,
		})

		rec, skip, err := s.prepareRecord(ctx, cand, gen, scheduleTime, params)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", cand.file.Name, err))
			result.Details = append(result.Details, Detail{FileName: cand.file.Name, Status: "failed", Err: err.Error()})
			continue
		}
		if skip != "" {
			result.Details = append(result.Details, Detail{FileName: cand.file.Name, Status: "skipped", Err: skip})
			continue
		}

		if params.DraftOnly {
			result.Details = append(result.Details, Detail{FileName: cand.file.Name, Status: "skipped", Err: "draft created"})
			continue
		}

		if err := s.uploadAndVerify(ctx, rec, params.Immediate); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", cand.file.Name, err))
			result.Details = append(result.Details, Detail{FileName: cand.file.Name, Status: "failed", Err: err.Error()})
			if youtube.IsQuotaError(err) {
				s.logger.Warn("upload quota exhausted, stopping batch")
				break
			}
			continue
		}

		result.Uploaded++
		result.Details = append(result.Details, Detail{
			FileName:  cand.file.Name,
			Status:    "uploaded",
			YouTubeID: rec.YouTubeID,
		})
	}

	return result
}

func (s *Service) applyRunDefaults(params *RunParams) {
	if params.Owner == "" {
		params.Owner = s.cfg.Upload.Owner
	}
	if params.Link == "" {
		params.Link = s.cfg.Drive.Link
	}
	if params.Limit <= 0 {
		params.Limit = s.cfg.Upload.RunLimit
	}
	if params.UploadHour < 0 {
		params.UploadHour = s.cfg.Upload.Hour
	}
	if params.VideosPerDay <= 0 {
		params.VideosPerDay = s.cfg.Upload.VideosPerDay
	}
}

func (s *Service) scheduleTime(ctx context.Context, scope store.Scope, params RunParams) (*time.Time, error) {
	if params.Immediate || params.DraftOnly {
		return nil, nil
	}
	if params.ScheduleAt != nil {
		return params.ScheduleAt, nil
	}
	slot, err := s.scheduler.NextSlot(ctx, scope, params.UploadHour, params.VideosPerDay)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// prepareRecord creates or promotes the store record for a candidate.
// A non-empty skip reason means the candidate is already handled.
func (s *Service) prepareRecord(ctx context.Context, cand candidate, gen *metadata.Result, scheduleTime *time.Time, params RunParams) (*store.Video, string, error) {
	status := store.StatusProcessing
	if params.DraftOnly {
		status = store.StatusDraft
	}

	if cand.existing == nil {
		rec := &store.Video{
			ID:              uuid.NewString(),
			DriveID:         cand.file.ID,
			OwnerID:         params.Owner,
			JobID:           params.JobID,
			FileName:        cand.file.Name,
			Title:           gen.Metadata.Title,
			Description:     gen.Metadata.Description,
			Tags:            joinTags(gen.Metadata.Tags),
			Transcript:      gen.Transcript,
			Status:          status,
			Visibility:      store.VisibilityPrivate,
			CopyrightStatus: store.CopyrightPending,
			ScheduledFor:    scheduleTime,
		}
		if err := s.videos.Create(ctx, rec); err != nil {
			return nil, "", fmt.Errorf("create record: %w", err)
		}
		return rec, "", nil
	}

	if cand.existing.Status == store.StatusDraft && !params.DraftOnly {
		rec := cand.existing
		rec.Status = store.StatusProcessing
		rec.JobID = params.JobID
		rec.Title = gen.Metadata.Title
		rec.Description = gen.Metadata.Description
		rec.Tags = joinTags(gen.Metadata.Tags)
		rec.Transcript = gen.Transcript
		rec.ScheduledFor = scheduleTime
		if err := s.videos.Update(ctx, rec); err != nil {
			return nil, "", fmt.Errorf("promote draft: %w", err)
		}
		return rec, "", nil
	}

	return nil, fmt.Sprintf("already %s", cand.existing.Status), nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}
