package youtube

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func TestNewAuth(t *testing.T) {
	auth := NewAuth("client-id", "client-secret", "/tmp/token.json")

	if auth == nil {
		t.Fatal("NewAuth() returned nil")
	}
	if auth.config.ClientID != "client-id" {
		t.Errorf("ClientID = %q, want %q", auth.config.ClientID, "client-id")
	}
	if auth.tokenPath != "/tmp/token.json" {
		t.Errorf("tokenPath = %q, want %q", auth.tokenPath, "/tmp/token.json")
	}
}

func TestAuthURL(t *testing.T) {
	auth := NewAuth("client-id", "client-secret", "/tmp/token.json")
	url := auth.AuthURL()

	if url == "" {
		t.Error("AuthURL() returned empty string")
	}
	if len(url) < 50 {
		t.Error("AuthURL() returned suspiciously short URL")
	}
}

func TestAuthLoadToken(t *testing.T) {
	tests := []struct {
		name    string
		token   *oauth2.Token
		raw     string
		wantErr bool
	}{
		{
			name: "validToken",
			token: &oauth2.Token{
				AccessToken:  "access",
				TokenType:    "Bearer",
				RefreshToken: "refresh",
				Expiry:       time.Now().Add(time.Hour),
			},
		},
		{
			name:    "missingFile",
			wantErr: true,
		},
		{
			name:    "invalidJSON",
			raw:     "not valid json",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenPath := filepath.Join(t.TempDir(), "token.json")

			if tt.token != nil {
				data, _ := json.Marshal(tt.token)
				_ = os.WriteFile(tokenPath, data, 0600)
			} else if tt.raw != "" {
				_ = os.WriteFile(tokenPath, []byte(tt.raw), 0600)
			}

			auth := NewAuth("id", "secret", tokenPath)
			err := auth.LoadToken()

			if (err != nil) != tt.wantErr {
				t.Errorf("LoadToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && auth.token.AccessToken != tt.token.AccessToken {
				t.Errorf("AccessToken = %q, want %q", auth.token.AccessToken, tt.token.AccessToken)
			}
		})
	}
}

func TestAuthSaveAndReload(t *testing.T) {
	tokenPath := filepath.Join(t.TempDir(), "token.json")

	auth := NewAuth("id", "secret", tokenPath)
	auth.token = &oauth2.Token{
		AccessToken:  "saved-access",
		RefreshToken: "saved-refresh",
		Expiry:       time.Now().Add(time.Hour),
	}

	if err := auth.SaveToken(); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}

	reloaded := NewAuth("id", "secret", tokenPath)
	if err := reloaded.LoadToken(); err != nil {
		t.Fatalf("LoadToken() error = %v", err)
	}
	if reloaded.token.AccessToken != "saved-access" {
		t.Errorf("AccessToken = %q, want %q", reloaded.token.AccessToken, "saved-access")
	}
	if !reloaded.IsAuthenticated() {
		t.Error("IsAuthenticated() = false after reload")
	}
}

func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		uploadStatus string
		want         bool
	}{
		{"processed", true},
		{"failed", true},
		{"rejected", true},
		{"uploaded", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.uploadStatus, func(t *testing.T) {
			s := Status{UploadStatus: tt.uploadStatus}
			if got := s.Terminal(); got != tt.want {
				t.Errorf("Terminal() = %v for %q, want %v", got, tt.uploadStatus, tt.want)
			}
		})
	}
}

func TestDefaultRestrictionPolicy(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{
			name:   "processedClean",
			status: Status{UploadStatus: "processed"},
			want:   false,
		},
		{
			name:   "rejectedCopyright",
			status: Status{UploadStatus: "rejected", RejectionReason: "copyright"},
			want:   true,
		},
		{
			name:   "rejectedAnyReason",
			status: Status{UploadStatus: "rejected"},
			want:   true,
		},
		{
			name:   "regionRestricted",
			status: Status{UploadStatus: "processed", RegionRestricted: true},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultRestrictionPolicy(tt.status); got != tt.want {
				t.Errorf("DefaultRestrictionPolicy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "uploadLimitExceeded",
			err: &googleapi.Error{
				Code:   http.StatusForbidden,
				Errors: []googleapi.ErrorItem{{Reason: "uploadLimitExceeded"}},
			},
			want: true,
		},
		{
			name: "quotaExceeded",
			err: &googleapi.Error{
				Code:   http.StatusForbidden,
				Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}},
			},
			want: true,
		},
		{
			name: "wrappedQuotaError",
			err: fmt.Errorf("upload video: %w", &googleapi.Error{
				Code:   http.StatusTooManyRequests,
				Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}},
			}),
			want: true,
		},
		{
			name: "forbiddenOtherReason",
			err: &googleapi.Error{
				Code:   http.StatusForbidden,
				Errors: []googleapi.ErrorItem{{Reason: "forbidden"}},
			},
			want: false,
		},
		{
			name: "serverError",
			err:  &googleapi.Error{Code: http.StatusInternalServerError},
			want: false,
		},
		{
			name: "plainError",
			err:  errors.New("network down"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsQuotaError(tt.err); got != tt.want {
				t.Errorf("IsQuotaError() = %v, want %v", got, tt.want)
			}
		})
	}
}
