package metadata

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Downloader streams the full contents of a Drive file.
type Downloader interface {
	Open(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// FrameExtractor samples still images from a video file on disk.
type FrameExtractor interface {
	Extract(ctx context.Context, path string, count int) ([][]byte, error)
}

// VisionGenerator produces metadata from sampled video frames.
type VisionGenerator interface {
	FromFrames(ctx context.Context, fileName string, frames [][]byte) (*Metadata, error)
}

// VisionStrategy downloads the whole video to a temporary file, samples
// frames from it and asks a vision model for metadata. It only runs for
// videos where transcription produced nothing, and always removes the
// temporary download before returning.
type VisionStrategy struct {
	downloader Downloader
	extractor  FrameExtractor
	generator  VisionGenerator
	frameCount int
}

func NewVisionStrategy(downloader Downloader, extractor FrameExtractor, generator VisionGenerator, frameCount int) *VisionStrategy {
	if frameCount <= 0 {
		frameCount = 3
	}
	return &VisionStrategy{
		downloader: downloader,
		extractor:  extractor,
		generator:  generator,
		frameCount: frameCount,
	}
}

func (s *VisionStrategy) Name() string { return "vision" }

func (s *VisionStrategy) Attempt(ctx context.Context, src Source, prior Prior) (*Result, error) {
	if prior.Transcript != "" {
		return nil, ErrSkip
	}

	path, err := s.download(ctx, src)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	frames, err := s.extractor.Extract(ctx, path, s.frameCount)
	if err != nil {
		return nil, fmt.Errorf("extract frames: %w", err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames extracted from %s", src.FileName)
	}

	m, err := s.generator.FromFrames(ctx, src.FileName, frames)
	if err != nil {
		return nil, fmt.Errorf("generate from frames: %w", err)
	}

	return &Result{Metadata: *m}, nil
}

func (s *VisionStrategy) download(ctx context.Context, src Source) (string, error) {
	body, err := s.downloader.Open(ctx, src.DriveID)
	if err != nil {
		return "", fmt.Errorf("open drive file: %w", err)
	}
	defer body.Close()

	f, err := os.CreateTemp("", "driveflow-*"+filepath.Ext(src.FileName))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("download video: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return f.Name(), nil
}
