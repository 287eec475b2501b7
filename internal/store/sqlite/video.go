package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"driveflow/internal/store"
)

// Repository implements store.VideoRepository and store.JobRepository on
// a single sqlite database.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var _ store.VideoRepository = (*Repository)(nil)

const videoColumns = `id, drive_id, owner_id, job_id, file_name, title, description,
		tags, transcript, status, youtube_id, visibility, copyright_status,
		copyright_checked_at, scheduled_for, uploaded_at, created_at, updated_at`

func (r *Repository) FindByDriveID(ctx context.Context, ownerID, driveID string) (*store.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE owner_id = ? AND drive_id = ?`
	return r.scanVideo(r.db.QueryRowContext(ctx, query, ownerID, driveID))
}

func (r *Repository) Create(ctx context.Context, video *store.Video) error {
	now := time.Now().UTC()
	video.CreatedAt = now
	video.UpdatedAt = now

	query := `INSERT INTO videos (` + videoColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		video.ID, video.DriveID, video.OwnerID, video.JobID, video.FileName,
		video.Title, video.Description, video.Tags, video.Transcript,
		string(video.Status), video.YouTubeID, string(video.Visibility),
		string(video.CopyrightStatus), nullTime(video.CopyrightCheckedAt),
		nullTime(video.ScheduledFor), nullTime(video.UploadedAt),
		video.CreatedAt, video.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert video %s: %w", video.DriveID, err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, video *store.Video) error {
	video.UpdatedAt = time.Now().UTC()

	query := `UPDATE videos SET
		job_id = ?, file_name = ?, title = ?, description = ?, tags = ?,
		transcript = ?, status = ?, youtube_id = ?, visibility = ?,
		copyright_status = ?, copyright_checked_at = ?, scheduled_for = ?,
		uploaded_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		video.JobID, video.FileName, video.Title, video.Description, video.Tags,
		video.Transcript, string(video.Status), video.YouTubeID,
		string(video.Visibility), string(video.CopyrightStatus),
		nullTime(video.CopyrightCheckedAt), nullTime(video.ScheduledFor),
		nullTime(video.UploadedAt), video.UpdatedAt, video.ID,
	)
	if err != nil {
		return fmt.Errorf("update video %s: %w", video.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update video %s: %w", video.ID, err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) FindLastScheduled(ctx context.Context, scope store.Scope) (*store.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos
		WHERE owner_id = ? AND scheduled_for IS NOT NULL`
	args := []any{scope.OwnerID}
	if scope.JobID != "" {
		query += ` AND job_id = ?`
		args = append(args, scope.JobID)
	}
	query += ` ORDER BY scheduled_for DESC LIMIT 1`

	return r.scanVideo(r.db.QueryRowContext(ctx, query, args...))
}

func (r *Repository) CountScheduledOnDay(ctx context.Context, scope store.Scope, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	query := `SELECT COUNT(*) FROM videos
		WHERE owner_id = ? AND scheduled_for >= ? AND scheduled_for < ?`
	args := []any{scope.OwnerID, start, end}
	if scope.JobID != "" {
		query += ` AND job_id = ?`
		args = append(args, scope.JobID)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count scheduled videos: %w", err)
	}
	return count, nil
}

func (r *Repository) scanVideo(row *sql.Row) (*store.Video, error) {
	var video store.Video
	var status, visibility, copyright string
	var checkedAt, scheduledFor, uploadedAt sql.NullTime

	err := row.Scan(
		&video.ID, &video.DriveID, &video.OwnerID, &video.JobID, &video.FileName,
		&video.Title, &video.Description, &video.Tags, &video.Transcript,
		&status, &video.YouTubeID, &visibility, &copyright,
		&checkedAt, &scheduledFor, &uploadedAt,
		&video.CreatedAt, &video.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan video: %w", err)
	}

	video.Status = store.Status(status)
	video.Visibility = store.Visibility(visibility)
	video.CopyrightStatus = store.CopyrightStatus(copyright)
	video.CopyrightCheckedAt = timePtr(checkedAt)
	video.ScheduledFor = timePtr(scheduledFor)
	video.UploadedAt = timePtr(uploadedAt)
	return &video, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}
