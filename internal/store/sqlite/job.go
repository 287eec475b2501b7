package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"driveflow/internal/store"
)

var _ store.JobRepository = (*Repository)(nil)

const jobColumns = `id, owner_id, name, drive_folder_link, upload_hour,
		videos_per_day, enabled, created_at, updated_at`

func (r *Repository) CreateJob(ctx context.Context, job *store.Job) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `INSERT INTO jobs (` + jobColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.OwnerID, job.Name, job.DriveFolderLink,
		job.UploadHour, job.VideosPerDay, job.Enabled,
		job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job %s: %w", job.Name, err)
	}
	return nil
}

func (r *Repository) GetJob(ctx context.Context, id string) (*store.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	job, err := scanJob(row.Scan)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

func (r *Repository) ListJobs(ctx context.Context, ownerID string) ([]store.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE owner_id = ? ORDER BY created_at`
	return r.queryJobs(ctx, query, ownerID)
}

func (r *Repository) ListEnabledJobs(ctx context.Context) ([]store.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE enabled = 1 ORDER BY created_at`
	return r.queryJobs(ctx, query)
}

func (r *Repository) SetJobEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET enabled = ?, updated_at = ? WHERE id = ?`,
		enabled, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) queryJobs(ctx context.Context, query string, args ...any) ([]store.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []store.Job
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func scanJob(scan func(dest ...any) error) (*store.Job, error) {
	var job store.Job
	err := scan(
		&job.ID, &job.OwnerID, &job.Name, &job.DriveFolderLink,
		&job.UploadHour, &job.VideosPerDay, &job.Enabled,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
