package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

const categoryPeopleAndBlogs = "22"

type UploadRequest struct {
	Media       io.Reader
	Title       string
	Description string
	Tags        []string
	Privacy     string
	// PublishAt schedules the public release. The platform requires a
	// scheduled video to be private until that instant, so a non-nil
	// PublishAt forces Privacy to private on the wire.
	PublishAt *time.Time
}

type UploadResponse struct {
	ID string
}

// Status is the subset of platform processing state the safety check
// needs.
type Status struct {
	UploadStatus     string
	PrivacyStatus    string
	RejectionReason  string
	RegionRestricted bool
}

// Terminal reports whether processing reached a final state.
func (s Status) Terminal() bool {
	switch s.UploadStatus {
	case "processed", "failed", "rejected":
		return true
	}
	return false
}

// RestrictionPolicy decides whether a processed video should be demoted
// to private. The platform does not document a single copyright signal,
// so the predicate is pluggable.
type RestrictionPolicy func(Status) bool

// DefaultRestrictionPolicy flags rejections (copyright claims surface as
// rejection reasons) and region-restricted videos.
func DefaultRestrictionPolicy(s Status) bool {
	if s.UploadStatus == "rejected" {
		return true
	}
	return s.RegionRestricted
}

type Client struct {
	svc     *yt.Service
	limiter *rate.Limiter
}

// NewClient builds a YouTube Data API client on an authenticated HTTP
// client. Mutating calls are throttled to stay clear of per-minute
// quota bursts.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := yt.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Client{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}, nil
}

func (c *Client) Upload(ctx context.Context, req UploadRequest) (*UploadResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	status := &yt.VideoStatus{
		PrivacyStatus:           req.Privacy,
		MadeForKids:             false,
		SelfDeclaredMadeForKids: false,
		ForceSendFields:         []string{"MadeForKids", "SelfDeclaredMadeForKids"},
	}
	if req.PublishAt != nil {
		status.PrivacyStatus = "private"
		status.PublishAt = req.PublishAt.UTC().Format(time.RFC3339)
	}

	video := &yt.Video{
		Snippet: &yt.VideoSnippet{
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			CategoryId:  categoryPeopleAndBlogs,
		},
		Status: status,
	}

	call := c.svc.Videos.Insert([]string{"snippet", "status"}, video).
		NotifySubscribers(false).
		Media(req.Media)

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("upload video: %w", err)
	}

	return &UploadResponse{ID: resp.Id}, nil
}

func (c *Client) Status(ctx context.Context, videoID string) (*Status, error) {
	resp, err := c.svc.Videos.List([]string{"status", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get video status %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s not found", videoID)
	}

	item := resp.Items[0]
	status := &Status{}
	if item.Status != nil {
		status.UploadStatus = item.Status.UploadStatus
		status.PrivacyStatus = item.Status.PrivacyStatus
		status.RejectionReason = item.Status.RejectionReason
	}
	if item.ContentDetails != nil && item.ContentDetails.RegionRestriction != nil {
		status.RegionRestricted = len(item.ContentDetails.RegionRestriction.Blocked) > 0
	}
	return status, nil
}

func (c *Client) SetVisibility(ctx context.Context, videoID, visibility string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	video := &yt.Video{
		Id:     videoID,
		Status: &yt.VideoStatus{PrivacyStatus: visibility},
	}
	if _, err := c.svc.Videos.Update([]string{"status"}, video).Context(ctx).Do(); err != nil {
		return fmt.Errorf("set visibility %s on %s: %w", visibility, videoID, err)
	}
	return nil
}

var quotaReasons = map[string]bool{
	"quotaExceeded":       true,
	"dailyLimitExceeded":  true,
	"uploadLimitExceeded": true,
	"rateLimitExceeded":   true,
}

// IsQuotaError reports whether err is the platform refusing further
// uploads for the day. Retrying other candidates is useless until the
// quota window resets.
func IsQuotaError(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code != http.StatusForbidden && apiErr.Code != http.StatusTooManyRequests {
		return false
	}
	for _, item := range apiErr.Errors {
		if quotaReasons[item.Reason] {
			return true
		}
	}
	return false
}
