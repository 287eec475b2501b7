package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"driveflow/internal/app"
	"driveflow/pkg/config"
)

var (
	onceLink      string
	onceLimit     int
	onceHour      int
	oncePerDay    int
	onceImmediate bool
	onceDraft     bool
	onceAt        string
	onceJobID     string
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run one automation batch",
	Long: `Discover new videos in the configured Drive folder, generate metadata
and upload each one with a scheduled release slot.`,
	RunE: runOnce,
}

func init() {
	onceCmd.Flags().StringVarP(&onceLink, "link", "l", "", "Drive folder or file link (defaults to config)")
	onceCmd.Flags().IntVarP(&onceLimit, "limit", "n", 0, "Max videos to process this run")
	onceCmd.Flags().IntVar(&onceHour, "hour", -1, "Publish hour, UTC 0-23 (defaults to config)")
	onceCmd.Flags().IntVar(&oncePerDay, "per-day", 0, "Videos published per day (defaults to config)")
	onceCmd.Flags().BoolVar(&onceImmediate, "now", false, "Publish public immediately instead of scheduling")
	onceCmd.Flags().BoolVar(&onceDraft, "draft", false, "Create drafts only, do not upload")
	onceCmd.Flags().StringVar(&onceAt, "at", "", "Explicit release time, RFC3339 (overrides the scheduler)")
	onceCmd.Flags().StringVar(&onceJobID, "job", "", "Attribute records to this job id")
	rootCmd.AddCommand(onceCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load(ctx)

	built, err := app.BuildService(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() { _ = built.Close() }()

	params := app.RunParams{
		Link:         onceLink,
		Limit:        onceLimit,
		UploadHour:   onceHour,
		VideosPerDay: oncePerDay,
		Immediate:    onceImmediate,
		DraftOnly:    onceDraft,
		JobID:        onceJobID,
	}
	if onceAt != "" {
		at, err := time.Parse(time.RFC3339, onceAt)
		if err != nil {
			return fmt.Errorf("parse --at: %w", err)
		}
		if !at.After(time.Now()) {
			return fmt.Errorf("--at must be in the future")
		}
		params.ScheduleAt = &at
	}

	result := built.Service.RunAutomation(ctx, params)
	printResult(result)
	return nil
}

func printResult(result *app.Result) {
	slog.Info("run finished",
		"processed", result.Processed,
		"uploaded", result.Uploaded,
		"failed", result.Failed)
	for _, d := range result.Details {
		switch d.Status {
		case "uploaded":
			slog.Info("uploaded", "file", d.FileName, "youtubeID", d.YouTubeID)
		case "skipped":
			slog.Info("skipped", "file", d.FileName, "reason", d.Err)
		case "failed":
			slog.Warn("failed", "file", d.FileName, "error", d.Err)
		}
	}
	for _, line := range result.Errors {
		slog.Warn("run error", "error", line)
	}
}
