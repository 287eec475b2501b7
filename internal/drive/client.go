package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	folderMimeType = "application/vnd.google-apps.folder"
	fileFields     = "id, name, mimeType, size, createdTime"
	listPageSize   = 100

	// Pathological folder graphs (shortcuts, deep nesting) are cut off
	// rather than traversed without bound.
	defaultMaxDepth = 5
)

// File describes a Drive object relevant to ingestion.
type File struct {
	ID        string
	Name      string
	MimeType  string
	Size      int64
	CreatedAt time.Time
}

func (f *File) IsFolder() bool {
	return f.MimeType == folderMimeType
}

func (f *File) IsVideo() bool {
	return strings.HasPrefix(f.MimeType, "video/")
}

type Client struct {
	svc      *gdrive.Service
	maxDepth int
}

// NewClient builds a Drive client on top of an authenticated HTTP
// client. maxDepth bounds folder recursion; non-positive values fall
// back to the default.
func NewClient(ctx context.Context, httpClient *http.Client, maxDepth int) (*Client, error) {
	svc, err := gdrive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &Client{svc: svc, maxDepth: maxDepth}, nil
}

func (c *Client) Metadata(ctx context.Context, id string) (*File, error) {
	f, err := c.svc.Files.Get(id).Fields(fileFields).SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get drive file %s: %w", id, err)
	}
	return convertFile(f), nil
}

// ListVideos returns all video files under folderID, recursing into
// subfolders up to the depth bound. Files are ordered newest first, the
// order Drive returns for createdTime desc.
func (c *Client) ListVideos(ctx context.Context, folderID string) ([]File, error) {
	return c.listVideos(ctx, folderID, 0)
}

func (c *Client) listVideos(ctx context.Context, folderID string, depth int) ([]File, error) {
	if depth > c.maxDepth {
		return nil, nil
	}

	var videos []File
	pageToken := ""
	for {
		call := c.svc.Files.List().
			Q(fmt.Sprintf("'%s' in parents and trashed = false", folderID)).
			Fields("nextPageToken, files(" + fileFields + ")").
			OrderBy("createdTime desc").
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			PageSize(listPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list drive folder %s: %w", folderID, err)
		}

		for _, f := range resp.Files {
			file := convertFile(f)
			switch {
			case file.IsFolder():
				nested, err := c.listVideos(ctx, file.ID, depth+1)
				if err != nil {
					return nil, err
				}
				videos = append(videos, nested...)
			case file.IsVideo():
				videos = append(videos, *file)
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return videos, nil
}

// Open streams the full file content. The caller owns the ReadCloser.
func (c *Client) Open(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := c.svc.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download drive file %s: %w", fileID, err)
	}
	return resp.Body, nil
}

// ReadPrefix fetches at most maxBytes from the start of the file. Enough
// of a video container for audio transcription without pulling the whole
// upload over the wire.
func (c *Client) ReadPrefix(ctx context.Context, fileID string, maxBytes int64) ([]byte, error) {
	call := c.svc.Files.Get(fileID).SupportsAllDrives(true)
	call.Header().Set("Range", fmt.Sprintf("bytes=0-%d", maxBytes-1))

	resp, err := call.Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("download drive file prefix %s: %w", fileID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// The server may ignore the Range header, so cap the read locally too.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read drive file prefix %s: %w", fileID, err)
	}
	return data, nil
}

func convertFile(f *gdrive.File) *File {
	created, _ := time.Parse(time.RFC3339, f.CreatedTime)
	return &File{
		ID:        f.Id,
		Name:      f.Name,
		MimeType:  f.MimeType,
		Size:      f.Size,
		CreatedAt: created,
	}
}
