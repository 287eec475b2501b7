package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("store: not found")

type Status string

const (
	StatusDraft      Status = "draft"
	StatusProcessing Status = "processing"
	StatusPending    Status = "pending"
	StatusUploaded   Status = "uploaded"
	StatusRestricted Status = "restricted"
	StatusFailed     Status = "failed"
)

type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPublic   Visibility = "public"
)

type CopyrightStatus string

const (
	CopyrightPending CopyrightStatus = "pending"
	CopyrightClear   CopyrightStatus = "clear"
	CopyrightClaimed CopyrightStatus = "claimed"
)

// Video is one record per Drive source file ever seen. DriveID is the
// natural key: re-processing the same file mutates the existing record.
type Video struct {
	ID                 string
	DriveID            string
	OwnerID            string
	JobID              string
	FileName           string
	Title              string
	Description        string
	Tags               string
	Transcript         string
	Status             Status
	YouTubeID          string
	Visibility         Visibility
	CopyrightStatus    CopyrightStatus
	CopyrightCheckedAt *time.Time
	ScheduledFor       *time.Time
	UploadedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (v *Video) TagList() []string {
	if v.Tags == "" {
		return nil
	}
	return strings.Split(v.Tags, ",")
}

// Job is a named recurring automation configuration.
type Job struct {
	ID              string
	OwnerID         string
	Name            string
	DriveFolderLink string
	UploadHour      int
	VideosPerDay    int
	Enabled         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Scope qualifies schedule queries. An empty JobID scopes to the owner's
// whole channel; otherwise slot counting is per job.
type Scope struct {
	OwnerID string
	JobID   string
}

type VideoRepository interface {
	FindByDriveID(ctx context.Context, ownerID, driveID string) (*Video, error)
	Create(ctx context.Context, video *Video) error
	Update(ctx context.Context, video *Video) error
	// FindLastScheduled returns ErrNotFound when no record in the scope
	// has a scheduled time yet.
	FindLastScheduled(ctx context.Context, scope Scope) (*Video, error)
	CountScheduledOnDay(ctx context.Context, scope Scope, day time.Time) (int, error)
}

type JobRepository interface {
	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobs(ctx context.Context, ownerID string) ([]Job, error)
	ListEnabledJobs(ctx context.Context) ([]Job, error)
	SetJobEnabled(ctx context.Context, id string, enabled bool) error
}
