package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"driveflow/internal/app"
	"driveflow/pkg/config"
)

var (
	scanLink  string
	scanLimit int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Create drafts without uploading",
	Long: `Discover new videos and persist draft records with generated metadata.
Nothing is uploaded; promote drafts later with the once command.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanLink, "link", "l", "", "Drive folder or file link (defaults to config)")
	scanCmd.Flags().IntVarP(&scanLimit, "limit", "n", 0, "Max videos to draft this run")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load(ctx)

	built, err := app.BuildService(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() { _ = built.Close() }()

	result := built.Service.RunAutomation(ctx, app.RunParams{
		Link:      scanLink,
		Limit:     scanLimit,
		DraftOnly: true,
	})
	printResult(result)
	return nil
}
