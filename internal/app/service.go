// Package app wires the Drive, metadata, scheduling and upload pieces
// into the automation runs driven by the CLI.
package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"driveflow/internal/archive"
	"driveflow/internal/drive"
	"driveflow/internal/metadata"
	"driveflow/internal/store"
	"driveflow/internal/youtube"
	"driveflow/pkg/config"
)

// DriveClient is the slice of the Drive API the orchestrator uses.
type DriveClient interface {
	Metadata(ctx context.Context, id string) (*drive.File, error)
	ListVideos(ctx context.Context, folderID string) ([]drive.File, error)
	Open(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// Uploader is the slice of the YouTube API the upload state machine
// uses.
type Uploader interface {
	Upload(ctx context.Context, req youtube.UploadRequest) (*youtube.UploadResponse, error)
	Status(ctx context.Context, videoID string) (*youtube.Status, error)
	SetVisibility(ctx context.Context, videoID, visibility string) error
}

// Generator picks the best available metadata for a video.
type Generator interface {
	Generate(ctx context.Context, src metadata.Source) *metadata.Result
}

// Slotter computes publish slots.
type Slotter interface {
	NextSlot(ctx context.Context, scope store.Scope, uploadHour, dailyQuota int) (time.Time, error)
}

type Service struct {
	cfg        *config.Config
	videos     store.VideoRepository
	jobs       store.JobRepository
	drive      DriveClient
	uploader   Uploader
	generator  Generator
	scheduler  Slotter
	archiver   archive.Archiver
	restricted youtube.RestrictionPolicy
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *slog.Logger
}

type ServiceOptions struct {
	Config     *config.Config
	Videos     store.VideoRepository
	Jobs       store.JobRepository
	Drive      DriveClient
	Uploader   Uploader
	Generator  Generator
	Scheduler  Slotter
	Archiver   archive.Archiver
	Restricted youtube.RestrictionPolicy
	Sleep      func(ctx context.Context, d time.Duration) error
	Logger     *slog.Logger
}

func NewService(opts ServiceOptions) *Service {
	s := &Service{
		cfg:        opts.Config,
		videos:     opts.Videos,
		jobs:       opts.Jobs,
		drive:      opts.Drive,
		uploader:   opts.Uploader,
		generator:  opts.Generator,
		scheduler:  opts.Scheduler,
		archiver:   opts.Archiver,
		restricted: opts.Restricted,
		sleep:      opts.Sleep,
		logger:     opts.Logger,
	}
	if s.restricted == nil {
		s.restricted = youtube.DefaultRestrictionPolicy
	}
	if s.sleep == nil {
		s.sleep = sleepContext
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *Service) Config() *config.Config {
	return s.cfg
}

func (s *Service) Jobs() store.JobRepository {
	return s.jobs
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
