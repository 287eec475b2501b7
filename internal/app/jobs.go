package app

import (
	"context"
	"fmt"

	"driveflow/internal/store"
)

// RunJob executes one automation batch for a stored job configuration.
func (s *Service) RunJob(ctx context.Context, job store.Job) *Result {
	return s.RunAutomation(ctx, RunParams{
		Owner:        job.OwnerID,
		Link:         job.DriveFolderLink,
		UploadHour:   job.UploadHour,
		VideosPerDay: job.VideosPerDay,
		JobID:        job.ID,
	})
}

// RunEnabledJobs runs every enabled job once, sequentially. Per-job
// failures are logged and do not stop the remaining jobs.
func (s *Service) RunEnabledJobs(ctx context.Context) error {
	jobs, err := s.jobs.ListEnabledJobs(ctx)
	if err != nil {
		return fmt.Errorf("list enabled jobs: %w", err)
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		result := s.RunJob(ctx, job)
		s.logger.Info("job run finished",
			"job", job.Name,
			"processed", result.Processed,
			"uploaded", result.Uploaded,
			"failed", result.Failed)
		for _, line := range result.Errors {
			s.logger.Warn("job run error", "job", job.Name, "error", line)
		}
	}

	return nil
}
