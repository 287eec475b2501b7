package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/googleapi"

	"driveflow/internal/drive"
	"driveflow/internal/metadata"
	"driveflow/internal/store"
	"driveflow/internal/youtube"
	"driveflow/pkg/config"
)

type memVideos struct {
	byDrive map[string]*store.Video
}

func newMemVideos() *memVideos {
	return &memVideos{byDrive: map[string]*store.Video{}}
}

func (m *memVideos) FindByDriveID(_ context.Context, _, driveID string) (*store.Video, error) {
	v, ok := m.byDrive[driveID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (m *memVideos) Create(_ context.Context, video *store.Video) error {
	if _, ok := m.byDrive[video.DriveID]; ok {
		return fmt.Errorf("duplicate drive id %s", video.DriveID)
	}
	copied := *video
	m.byDrive[video.DriveID] = &copied
	return nil
}

func (m *memVideos) Update(_ context.Context, video *store.Video) error {
	if _, ok := m.byDrive[video.DriveID]; !ok {
		return store.ErrNotFound
	}
	copied := *video
	m.byDrive[video.DriveID] = &copied
	return nil
}

func (m *memVideos) FindLastScheduled(_ context.Context, _ store.Scope) (*store.Video, error) {
	return nil, nil
}

func (m *memVideos) CountScheduledOnDay(_ context.Context, _ store.Scope, _ time.Time) (int, error) {
	return 0, nil
}

type mockDrive struct {
	meta  *drive.File
	files []drive.File
}

func (m *mockDrive) Metadata(_ context.Context, _ string) (*drive.File, error) {
	if m.meta == nil {
		return nil, errors.New("not found")
	}
	return m.meta, nil
}

func (m *mockDrive) ListVideos(_ context.Context, _ string) ([]drive.File, error) {
	return m.files, nil
}

func (m *mockDrive) Open(_ context.Context, _ string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("video bytes")), nil
}

type mockUploader struct {
	uploads    int
	uploadErrs map[int]error
	status     youtube.Status
	demoted    []string
}

func (m *mockUploader) Upload(_ context.Context, _ youtube.UploadRequest) (*youtube.UploadResponse, error) {
	m.uploads++
	if err, ok := m.uploadErrs[m.uploads]; ok {
		return nil, err
	}
	return &youtube.UploadResponse{ID: fmt.Sprintf("yt-%d", m.uploads)}, nil
}

func (m *mockUploader) Status(_ context.Context, _ string) (*youtube.Status, error) {
	return &m.status, nil
}

func (m *mockUploader) SetVisibility(_ context.Context, videoID, visibility string) error {
	m.demoted = append(m.demoted, videoID+":"+visibility)
	return nil
}

type mockGenerator struct{}

func (m *mockGenerator) Generate(_ context.Context, src metadata.Source) *metadata.Result {
	return &metadata.Result{
		Metadata: metadata.Metadata{
			Title:       "Title for " + src.FileName,
			Description: "desc",
			Tags:        []string{"tag"},
		},
		Transcript: "transcript of " + src.FileName,
		Strategy:   "transcript",
	}
}

type mockSlotter struct {
	next  time.Time
	err   error
	calls int
}

func (m *mockSlotter) NextSlot(_ context.Context, _ store.Scope, _, _ int) (time.Time, error) {
	m.calls++
	return m.next, m.err
}

func folderWithVideos(names ...string) *mockDrive {
	files := make([]drive.File, 0, len(names))
	for i, name := range names {
		files = append(files, drive.File{
			ID:       fmt.Sprintf("drive-%d", i+1),
			Name:     name,
			MimeType: "video/mp4",
		})
	}
	return &mockDrive{
		meta:  &drive.File{ID: "folder", MimeType: "application/vnd.google-apps.folder"},
		files: files,
	}
}

func testService(videos *memVideos, dr *mockDrive, up *mockUploader, sl *mockSlotter) *Service {
	return NewService(ServiceOptions{
		Config: &config.Config{
			Upload: config.UploadConfig{Owner: "default", Hour: 15, VideosPerDay: 1, RunLimit: 10},
			Safety: config.SafetyConfig{PollSeconds: 0, PollAttempts: 2},
		},
		Videos:    videos,
		Drive:     dr,
		Uploader:  up,
		Generator: &mockGenerator{},
		Scheduler: sl,
		Sleep:     func(context.Context, time.Duration) error { return nil },
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func futureSlot() time.Time {
	return time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
}

func TestRunAutomationDraftScan(t *testing.T) {
	videos := newMemVideos()
	svc := testService(videos, folderWithVideos("a.mp4", "b.mp4", "c.mp4"), &mockUploader{}, &mockSlotter{})

	result := svc.RunAutomation(context.Background(), RunParams{
		Link:      "https://drive.google.com/drive/folders/folder",
		DraftOnly: true,
	})

	if result.Processed != 3 || result.Uploaded != 0 || result.Failed != 0 {
		t.Errorf("result = %+v, want 3 processed drafts", result)
	}
	for drv, rec := range videos.byDrive {
		if rec.Status != store.StatusDraft {
			t.Errorf("%s status = %s, want draft", drv, rec.Status)
		}
		if rec.Title == "" || rec.Transcript == "" {
			t.Errorf("%s missing generated metadata", drv)
		}
		if rec.ScheduledFor != nil {
			t.Errorf("%s has a schedule, drafts must not", drv)
		}
	}
}

func TestRunAutomationDraftScanIsIdempotent(t *testing.T) {
	videos := newMemVideos()
	dr := folderWithVideos("a.mp4", "b.mp4")
	svc := testService(videos, dr, &mockUploader{}, &mockSlotter{})
	params := RunParams{Link: "https://drive.google.com/drive/folders/folder", DraftOnly: true}

	first := svc.RunAutomation(context.Background(), params)
	if first.Processed != 2 {
		t.Fatalf("first scan processed = %d, want 2", first.Processed)
	}

	second := svc.RunAutomation(context.Background(), params)
	if second.Processed != 0 {
		t.Errorf("second scan processed = %d, want 0", second.Processed)
	}
	if len(second.Errors) == 0 || !strings.Contains(second.Errors[0], "no eligible videos") {
		t.Errorf("second scan errors = %v, want empty-result message", second.Errors)
	}
}

func TestRunAutomationPromotesDraftInPlace(t *testing.T) {
	videos := newMemVideos()
	dr := folderWithVideos("a.mp4")
	up := &mockUploader{status: youtube.Status{UploadStatus: "processed", PrivacyStatus: "private"}}
	svc := testService(videos, dr, up, &mockSlotter{next: futureSlot()})
	link := "https://drive.google.com/drive/folders/folder"

	svc.RunAutomation(context.Background(), RunParams{Link: link, DraftOnly: true})
	draft := videos.byDrive["drive-1"]
	if draft == nil || draft.Status != store.StatusDraft {
		t.Fatalf("draft not created: %+v", draft)
	}
	draftID := draft.ID

	result := svc.RunAutomation(context.Background(), RunParams{Link: link})
	if result.Uploaded != 1 {
		t.Fatalf("result = %+v, want 1 uploaded", result)
	}

	rec := videos.byDrive["drive-1"]
	if rec.ID != draftID {
		t.Errorf("record id changed on promotion: %s != %s", rec.ID, draftID)
	}
	if rec.Status != store.StatusUploaded {
		t.Errorf("status = %s, want uploaded", rec.Status)
	}
	if rec.YouTubeID == "" || rec.UploadedAt == nil {
		t.Errorf("record missing upload fields: %+v", rec)
	}
	if rec.ScheduledFor == nil {
		t.Error("scheduled slot lost during promotion")
	}
	if rec.CopyrightStatus != store.CopyrightClear {
		t.Errorf("copyright = %s, want clear", rec.CopyrightStatus)
	}
}

func TestRunAutomationLimit(t *testing.T) {
	videos := newMemVideos()
	svc := testService(videos, folderWithVideos("a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4"), &mockUploader{}, &mockSlotter{})

	result := svc.RunAutomation(context.Background(), RunParams{
		Link:      "https://drive.google.com/drive/folders/folder",
		Limit:     2,
		DraftOnly: true,
	})

	if result.Processed != 2 {
		t.Errorf("processed = %d, want 2", result.Processed)
	}
	if len(videos.byDrive) != 2 {
		t.Errorf("records created = %d, want 2", len(videos.byDrive))
	}
}

func TestRunAutomationQuotaStopsBatch(t *testing.T) {
	videos := newMemVideos()
	quotaErr := &googleapi.Error{
		Code:   http.StatusForbidden,
		Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}},
	}
	up := &mockUploader{
		status:     youtube.Status{UploadStatus: "processed"},
		uploadErrs: map[int]error{3: quotaErr},
	}
	svc := testService(videos, folderWithVideos("a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4"), up, &mockSlotter{next: futureSlot()})

	result := svc.RunAutomation(context.Background(), RunParams{
		Link: "https://drive.google.com/drive/folders/folder",
	})

	if result.Processed != 3 {
		t.Errorf("processed = %d, want 3 (batch stops at quota)", result.Processed)
	}
	if result.Uploaded != 2 || result.Failed != 1 {
		t.Errorf("uploaded = %d, failed = %d, want 2/1", result.Uploaded, result.Failed)
	}
	if up.uploads != 3 {
		t.Errorf("upload attempts = %d, want 3", up.uploads)
	}
	if videos.byDrive["drive-3"].Status != store.StatusFailed {
		t.Errorf("quota-hit record status = %s, want failed", videos.byDrive["drive-3"].Status)
	}
	if _, ok := videos.byDrive["drive-4"]; ok {
		t.Error("candidate after quota failure should not have been processed")
	}
}

func TestRunAutomationRestrictionClearsSchedule(t *testing.T) {
	videos := newMemVideos()
	up := &mockUploader{status: youtube.Status{UploadStatus: "rejected", RejectionReason: "copyright"}}
	svc := testService(videos, folderWithVideos("a.mp4"), up, &mockSlotter{next: futureSlot()})

	result := svc.RunAutomation(context.Background(), RunParams{
		Link: "https://drive.google.com/drive/folders/folder",
	})

	if result.Uploaded != 1 {
		t.Fatalf("result = %+v, want upload to succeed before restriction", result)
	}

	rec := videos.byDrive["drive-1"]
	if rec.Status != store.StatusRestricted {
		t.Errorf("status = %s, want restricted", rec.Status)
	}
	if rec.ScheduledFor != nil {
		t.Error("restricted record must have no schedule")
	}
	if rec.Visibility != store.VisibilityPrivate {
		t.Errorf("visibility = %s, want private", rec.Visibility)
	}
	if rec.CopyrightStatus != store.CopyrightClaimed {
		t.Errorf("copyright = %s, want claimed", rec.CopyrightStatus)
	}
	if len(up.demoted) == 0 || up.demoted[0] != "yt-1:private" {
		t.Errorf("demotions = %v, want yt-1 forced private", up.demoted)
	}
}

func TestRunAutomationInvalidLink(t *testing.T) {
	svc := testService(newMemVideos(), &mockDrive{}, &mockUploader{}, &mockSlotter{})

	result := svc.RunAutomation(context.Background(), RunParams{Link: "?!"})

	if result.Processed != 0 {
		t.Errorf("processed = %d, want 0", result.Processed)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "invalid drive link") {
		t.Errorf("errors = %v, want single invalid-link entry", result.Errors)
	}
}

func TestRunAutomationUploadFailureIsolated(t *testing.T) {
	videos := newMemVideos()
	up := &mockUploader{
		status:     youtube.Status{UploadStatus: "processed"},
		uploadErrs: map[int]error{1: errors.New("network blip")},
	}
	svc := testService(videos, folderWithVideos("a.mp4", "b.mp4"), up, &mockSlotter{next: futureSlot()})

	result := svc.RunAutomation(context.Background(), RunParams{
		Link: "https://drive.google.com/drive/folders/folder",
	})

	if result.Processed != 2 || result.Uploaded != 1 || result.Failed != 1 {
		t.Errorf("result = %+v, want failure isolated to one candidate", result)
	}
	if videos.byDrive["drive-1"].Status != store.StatusFailed {
		t.Errorf("drive-1 status = %s, want failed", videos.byDrive["drive-1"].Status)
	}
	if videos.byDrive["drive-2"].Status != store.StatusUploaded {
		t.Errorf("drive-2 status = %s, want uploaded", videos.byDrive["drive-2"].Status)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "a.mp4") {
		t.Errorf("errors = %v, want a.mp4 failure line", result.Errors)
	}
}

func TestRunAutomationImmediateSkipsScheduler(t *testing.T) {
	videos := newMemVideos()
	up := &mockUploader{status: youtube.Status{UploadStatus: "processed"}}
	sl := &mockSlotter{next: futureSlot()}
	svc := testService(videos, folderWithVideos("a.mp4"), up, sl)

	result := svc.RunAutomation(context.Background(), RunParams{
		Link:      "https://drive.google.com/drive/folders/folder",
		Immediate: true,
	})

	if result.Uploaded != 1 {
		t.Fatalf("result = %+v", result)
	}
	if sl.calls != 0 {
		t.Errorf("scheduler called %d times, want 0 for immediate run", sl.calls)
	}
	rec := videos.byDrive["drive-1"]
	if rec.ScheduledFor != nil {
		t.Error("immediate upload must not carry a schedule")
	}
	if rec.Visibility != store.VisibilityPublic {
		t.Errorf("visibility = %s, want public", rec.Visibility)
	}
}

func TestRunAutomationSingleFileLink(t *testing.T) {
	videos := newMemVideos()
	dr := &mockDrive{meta: &drive.File{ID: "file-1", Name: "solo.mp4", MimeType: "video/mp4"}}
	svc := testService(videos, dr, &mockUploader{}, &mockSlotter{})

	result := svc.RunAutomation(context.Background(), RunParams{
		Link:      "https://drive.google.com/file/d/file-1-xxxxxxxxxxx/view",
		DraftOnly: true,
	})

	if result.Processed != 1 {
		t.Errorf("processed = %d, want 1", result.Processed)
	}
	if _, ok := videos.byDrive["file-1"]; !ok {
		t.Error("single-file candidate not recorded")
	}
}

func TestRunAutomationSchedulerErrorStopsRun(t *testing.T) {
	videos := newMemVideos()
	sl := &mockSlotter{err: errors.New("db down")}
	svc := testService(videos, folderWithVideos("a.mp4", "b.mp4"), &mockUploader{}, sl)

	result := svc.RunAutomation(context.Background(), RunParams{
		Link: "https://drive.google.com/drive/folders/folder",
	})

	if result.Processed != 1 {
		t.Errorf("processed = %d, want 1 (run stops on scheduler failure)", result.Processed)
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "compute schedule") {
		t.Errorf("errors = %v, want schedule failure", result.Errors)
	}
}
