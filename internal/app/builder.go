package app

import (
	"context"
	"fmt"
	"log/slog"

	"driveflow/internal/archive"
	"driveflow/internal/drive"
	"driveflow/internal/frames"
	"driveflow/internal/llm"
	"driveflow/internal/metadata"
	"driveflow/internal/scheduler"
	"driveflow/internal/store/sqlite"
	"driveflow/internal/transcribe"
	"driveflow/internal/vision"
	"driveflow/internal/youtube"
	"driveflow/pkg/config"
	"driveflow/pkg/prompts"
)

// BuildResult carries the wired service plus the handles the caller
// must close on shutdown.
type BuildResult struct {
	Service *Service
	Close   func() error
}

// BuildService wires the full dependency graph from configuration. It
// requires a stored OAuth token; run the auth command first.
func BuildService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*BuildResult, error) {
	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	repo := sqlite.NewRepository(db)

	auth := youtube.NewAuth(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
	if err := auth.LoadToken(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load oauth token (run `driveflow auth` first): %w", err)
	}
	httpClient, err := auth.Client(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("build authenticated client: %w", err)
	}

	driveClient, err := drive.NewClient(ctx, httpClient, cfg.Drive.MaxDepth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create drive client: %w", err)
	}
	uploader, err := youtube.NewClient(ctx, httpClient)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create youtube client: %w", err)
	}

	p, err := prompts.Load()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	textGen, err := llm.NewClient(cfg.GroqAPIKey, cfg.Metadata.GroqModel, p)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create llm client: %w", err)
	}
	transcriber := transcribe.NewClient(cfg.GroqAPIKey, cfg.Metadata.WhisperModel)

	strategies := []metadata.Strategy{
		metadata.NewTranscriptStrategy(driveClient, transcriber, textGen, cfg.PrefixBytes()),
	}
	if cfg.GeminiProject != "" {
		visionGen, err := vision.NewClient(ctx, cfg.GeminiProject, cfg.GeminiLocation, cfg.Metadata.GeminiModel, p)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create vision client: %w", err)
		}
		extractor := frames.NewExtractor(cfg.Tools.FFmpegPath, cfg.Tools.FFprobePath)
		strategies = append(strategies,
			metadata.NewVisionStrategy(driveClient, extractor, visionGen, cfg.Metadata.FrameCount))
	} else {
		logger.Info("GEMINI_PROJECT not set, vision strategy disabled")
	}
	strategies = append(strategies, metadata.NewFilenameStrategy(textGen))

	var archiver archive.Archiver
	closeArchiver := func() error { return nil }
	if cfg.GCSBucket != "" {
		gcs, err := archive.NewGCSArchiver(ctx, cfg.GCSBucket, cfg.Archive.Prefix)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create archiver: %w", err)
		}
		archiver = gcs
		closeArchiver = gcs.Close
	} else {
		archiver = archive.NewLocalArchiver(cfg.Archive.Dir)
	}

	service := NewService(ServiceOptions{
		Config:    cfg,
		Videos:    repo,
		Jobs:      repo,
		Drive:     driveClient,
		Uploader:  uploader,
		Generator: metadata.NewSelector(logger, strategies...),
		Scheduler: scheduler.New(repo),
		Archiver:  archiver,
		Logger:    logger,
	})

	return &BuildResult{
		Service: service,
		Close: func() error {
			if err := closeArchiver(); err != nil {
				_ = db.Close()
				return err
			}
			return db.Close()
		},
	}, nil
}
