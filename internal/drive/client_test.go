package drive

import (
	"context"
	"net/http"
	"testing"
	"time"

	gdrive "google.golang.org/api/drive/v3"
)

func TestFileIsFolder(t *testing.T) {
	folder := File{MimeType: folderMimeType}
	if !folder.IsFolder() {
		t.Error("IsFolder() = false for folder mime type")
	}

	video := File{MimeType: "video/mp4"}
	if video.IsFolder() {
		t.Error("IsFolder() = true for video mime type")
	}
}

func TestFileIsVideo(t *testing.T) {
	tests := []struct {
		mimeType string
		want     bool
	}{
		{"video/mp4", true},
		{"video/quicktime", true},
		{"video/x-matroska", true},
		{"image/png", false},
		{"application/pdf", false},
		{folderMimeType, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			f := File{MimeType: tt.mimeType}
			if got := f.IsVideo(); got != tt.want {
				t.Errorf("IsVideo() = %v for %q, want %v", got, tt.mimeType, tt.want)
			}
		})
	}
}

func TestNewClientMaxDepth(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		want  int
	}{
		{"configuredDepth", 3, 3},
		{"zeroFallsBackToDefault", 0, defaultMaxDepth},
		{"negativeFallsBackToDefault", -1, defaultMaxDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(context.Background(), &http.Client{}, tt.depth)
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			if c.maxDepth != tt.want {
				t.Errorf("maxDepth = %d, want %d", c.maxDepth, tt.want)
			}
		})
	}
}

func TestConvertFile(t *testing.T) {
	f := convertFile(&gdrive.File{
		Id:          "file-1",
		Name:        "clip.mp4",
		MimeType:    "video/mp4",
		Size:        1024,
		CreatedTime: "2026-08-01T12:30:00Z",
	})

	if f.ID != "file-1" || f.Name != "clip.mp4" || f.Size != 1024 {
		t.Errorf("convertFile() = %+v", f)
	}
	want := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	if !f.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", f.CreatedAt, want)
	}
}

func TestConvertFileBadTimestamp(t *testing.T) {
	f := convertFile(&gdrive.File{Id: "file-2", CreatedTime: "garbage"})
	if !f.CreatedAt.IsZero() {
		t.Errorf("CreatedAt = %v, want zero", f.CreatedAt)
	}
}
