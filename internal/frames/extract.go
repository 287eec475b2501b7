// Package frames samples still images from video files with ffmpeg.
package frames

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"driveflow/internal/metadata"
)

type Extractor struct {
	ffmpegPath  string
	ffprobePath string
}

var _ metadata.FrameExtractor = (*Extractor)(nil)

func NewExtractor(ffmpegPath, ffprobePath string) *Extractor {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Extractor{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// Extract samples count JPEG frames spaced evenly across the video at
// fractions (i+1)/(count+1) of its duration, so the first and last
// moments of the clip are never picked.
func (e *Extractor) Extract(ctx context.Context, path string, count int) ([][]byte, error) {
	if count <= 0 {
		return nil, fmt.Errorf("frame count must be positive, got %d", count)
	}

	duration, err := e.duration(ctx, path)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, fmt.Errorf("video %s has no duration", path)
	}

	frames := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		offset := duration * float64(i+1) / float64(count+1)
		frame, err := e.frameAt(ctx, path, offset)
		if err != nil {
			return nil, fmt.Errorf("extract frame at %.2fs: %w", offset, err)
		}
		frames = append(frames, frame)
	}

	return frames, nil
}

func (e *Extractor) duration(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var dur float64
	if _, err := fmt.Sscanf(string(output), "%f", &dur); err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return dur, nil
}

func (e *Extractor) frameAt(ctx context.Context, path string, offset float64) ([]byte, error) {
	out := filepath.Join(os.TempDir(), fmt.Sprintf("frame_%d.jpg", time.Now().UnixNano()))
	defer func() { _ = os.Remove(out) }()

	args := []string{
		"-ss", fmt.Sprintf("%.3f", offset),
		"-i", path,
		"-frames:v", "1",
		"-q:v", "2",
		"-y",
		out,
	}

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w, output: %s", err, string(output))
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}

	return data, nil
}
