package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"driveflow/internal/store"
	"driveflow/internal/store/sqlite"
	"driveflow/pkg/config"
)

var (
	jobName   string
	jobLink   string
	jobHour   int
	jobPerDay int
	jobOwner  string
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage recurring automation jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured jobs",
	RunE:  runJobsList,
}

var jobsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a recurring job",
	RunE:  runJobsAdd,
}

var jobsEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable a job",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setJobEnabled(cmd, args[0], true) },
}

var jobsDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable a job",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setJobEnabled(cmd, args[0], false) },
}

func init() {
	jobsAddCmd.Flags().StringVar(&jobName, "name", "", "Job name")
	jobsAddCmd.Flags().StringVarP(&jobLink, "link", "l", "", "Drive folder link")
	jobsAddCmd.Flags().IntVar(&jobHour, "hour", -1, "Publish hour, UTC 0-23 (defaults to config)")
	jobsAddCmd.Flags().IntVar(&jobPerDay, "per-day", 0, "Videos published per day (defaults to config)")
	jobsAddCmd.Flags().StringVar(&jobOwner, "owner", "", "Owner id (defaults to config)")
	_ = jobsAddCmd.MarkFlagRequired("name")
	_ = jobsAddCmd.MarkFlagRequired("link")

	jobsCmd.AddCommand(jobsListCmd, jobsAddCmd, jobsEnableCmd, jobsDisableCmd)
	rootCmd.AddCommand(jobsCmd)
}

func openRepository(cmd *cobra.Command) (*config.Config, *sqlite.Repository, func() error, error) {
	cfg := config.Load(cmd.Context())
	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, sqlite.NewRepository(db), db.Close, nil
}

func runJobsList(cmd *cobra.Command, args []string) error {
	cfg, repo, closeDB, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	jobs, err := repo.ListJobs(cmd.Context(), cfg.Upload.Owner)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	if len(jobs) == 0 {
		fmt.Println("no jobs configured")
		return nil
	}

	for _, job := range jobs {
		state := "disabled"
		if job.Enabled {
			state = "enabled"
		}
		fmt.Printf("%s  %-20s  %s  hour=%02d per-day=%d  %s\n",
			job.ID, job.Name, state, job.UploadHour, job.VideosPerDay, job.DriveFolderLink)
	}
	return nil
}

func runJobsAdd(cmd *cobra.Command, args []string) error {
	cfg, repo, closeDB, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	owner := jobOwner
	if owner == "" {
		owner = cfg.Upload.Owner
	}
	hour := jobHour
	if hour < 0 {
		hour = cfg.Upload.Hour
	}
	perDay := jobPerDay
	if perDay <= 0 {
		perDay = cfg.Upload.VideosPerDay
	}

	job := &store.Job{
		ID:              uuid.NewString(),
		OwnerID:         owner,
		Name:            jobName,
		DriveFolderLink: jobLink,
		UploadHour:      hour,
		VideosPerDay:    perDay,
		Enabled:         true,
	}
	if err := repo.CreateJob(cmd.Context(), job); err != nil {
		return fmt.Errorf("create job: %w", err)
	}

	fmt.Printf("created job %s (%s)\n", job.Name, job.ID)
	return nil
}

func setJobEnabled(cmd *cobra.Command, id string, enabled bool) error {
	_, repo, closeDB, err := openRepository(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	if err := repo.SetJobEnabled(cmd.Context(), id, enabled); err != nil {
		return fmt.Errorf("update job: %w", err)
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	fmt.Printf("job %s %s\n", id, state)
	return nil
}
