package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"driveflow/internal/app"
	"driveflow/pkg/config"
)

var runInterval time.Duration

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Cron mode: execute enabled jobs at a fixed interval",
	Long: `Run continuously, executing every enabled automation job at regular
intervals until interrupted.`,
	RunE: runCron,
}

func init() {
	runCmd.Flags().DurationVarP(&runInterval, "interval", "i", time.Hour, "Interval between job sweeps")
	rootCmd.AddCommand(runCmd)
}

func runCron(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg := config.Load(ctx)

	built, err := app.BuildService(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() { _ = built.Close() }()

	slog.Info("Starting cron mode", "interval", runInterval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sweep := func() {
		if err := built.Service.RunEnabledJobs(ctx); err != nil {
			slog.Error("Job sweep failed", "error", err)
		}
	}

	sweep()

	ticker := time.NewTicker(runInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sweep()
		case sig := <-sigChan:
			slog.Info("Shutting down", "signal", sig)
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
