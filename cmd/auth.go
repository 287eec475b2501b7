package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"driveflow/internal/youtube"
	"driveflow/pkg/config"
)

var (
	authInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	authSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	authErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Google (YouTube and Drive)",
	Long:  `Complete the Google OAuth flow using credentials from .env and store the token locally.`,
	RunE:  runAuth,
}

var authYouTubeCmd = &cobra.Command{
	Use:   "youtube",
	Short: "Run the Google OAuth flow",
	RunE:  runAuth,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check credential and authentication status",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authYouTubeCmd, authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg := config.Load(cmd.Context())

	fmt.Println(authInfoStyle.Render("\nCredential status:\n"))

	if cfg.YouTubeClientID != "" && cfg.YouTubeClientSecret != "" {
		auth := youtube.NewAuth(cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
		if err := auth.LoadToken(); err == nil && auth.IsAuthenticated() {
			fmt.Println(authSuccessStyle.Render("✓ Google: authenticated (token exists)"))
		} else {
			fmt.Println(authErrorStyle.Render("✗ Google: credentials set, but not authenticated"))
			fmt.Println(authInfoStyle.Render("  Run: driveflow auth"))
		}
	} else {
		fmt.Println(authErrorStyle.Render("✗ Google: missing YOUTUBE_CLIENT_ID or YOUTUBE_CLIENT_SECRET"))
	}

	if cfg.GroqAPIKey != "" {
		fmt.Println(authSuccessStyle.Render("✓ Groq: API key configured"))
	} else {
		fmt.Println(authErrorStyle.Render("✗ Groq: missing GROQ_API_KEY"))
	}

	if cfg.GeminiProject != "" {
		fmt.Println(authSuccessStyle.Render("✓ Gemini: project configured"))
	} else {
		fmt.Println(authInfoStyle.Render("○ Gemini: not configured (vision fallback disabled)"))
	}

	if cfg.GCSBucket != "" {
		fmt.Println(authSuccessStyle.Render("✓ GCS archive: bucket configured"))
	} else {
		fmt.Println(authInfoStyle.Render("○ GCS archive: not configured (records archived locally)"))
	}

	fmt.Println()
	return nil
}

func runAuth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load(ctx)

	if cfg.YouTubeClientID == "" || cfg.YouTubeClientSecret == "" {
		return fmt.Errorf("YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET must be set in .env")
	}

	return runGoogleAuth(ctx, cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeTokenPath)
}

func runGoogleAuth(ctx context.Context, clientID, clientSecret, tokenPath string) error {
	auth := youtube.NewAuth(clientID, clientSecret, tokenPath)

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	listener, err := net.Listen("tcp", ":8085")
	if err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}

	server := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/callback" {
			http.NotFound(w, r)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no code in callback")
			_, _ = fmt.Fprintf(w, "<html><body><h1>Error</h1><p>No authorization code received.</p></body></html>")
			return
		}

		codeChan <- code
		_, _ = fmt.Fprintf(w, "<html><body><h1>Success!</h1><p>You can close this window and return to the terminal.</p></body></html>")
	})

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := auth.AuthURL()
	fmt.Println(authInfoStyle.Render("\nOpening browser for Google authentication..."))
	fmt.Println(authInfoStyle.Render("If the browser doesn't open, visit:\n" + authURL))

	_ = browser.OpenURL(authURL)

	fmt.Println(authInfoStyle.Render("\nWaiting for authentication..."))

	select {
	case code := <-codeChan:
		if err := auth.Exchange(ctx, code); err != nil {
			return fmt.Errorf("failed to exchange code: %w", err)
		}
		if err := auth.SaveToken(); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}

		fmt.Println(authSuccessStyle.Render("✓ Google authentication complete"))
		fmt.Println(authSuccessStyle.Render("  Token saved to: " + tokenPath))
		return nil

	case err := <-errChan:
		return err

	case <-time.After(5 * time.Minute):
		return fmt.Errorf("authentication timed out")
	}
}
