package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath    = "config.yaml"
	defaultDatabasePath  = "./driveflow.db"
	defaultTokenPath     = "./youtube_token.json"
	defaultOwner         = "default"
	defaultUploadHour    = 15
	defaultVideosPerDay  = 1
	defaultRunLimit      = 3
	defaultMaxDepth      = 5
	defaultPrefixMB      = 10
	defaultFrameCount    = 3
	defaultPollSeconds   = 5
	defaultPollAttempts  = 24
	defaultGroqModel     = "llama-3.3-70b-versatile"
	defaultWhisperModel  = "whisper-large-v3"
	defaultGeminiModel   = "gemini-2.0-flash"
	defaultGeminiRegion  = "us-central1"
	defaultArchiveDir    = "./archive"
	defaultArchivePrefix = "records"
)

type Config struct {
	GroqAPIKey          string
	YouTubeClientID     string
	YouTubeClientSecret string
	YouTubeTokenPath    string
	GCSBucket           string
	GeminiProject       string
	GeminiLocation      string
	DatabasePath        string

	Drive    DriveConfig    `yaml:"drive"`
	Upload   UploadConfig   `yaml:"upload"`
	Safety   SafetyConfig   `yaml:"safety"`
	Metadata MetadataConfig `yaml:"metadata"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Tools    ToolsConfig    `yaml:"tools"`
}

type DriveConfig struct {
	Link     string `yaml:"link"`
	MaxDepth int    `yaml:"max_depth"`
}

type UploadConfig struct {
	Owner        string `yaml:"owner"`
	Hour         int    `yaml:"hour"`
	VideosPerDay int    `yaml:"videos_per_day"`
	RunLimit     int    `yaml:"run_limit"`
}

type SafetyConfig struct {
	PollSeconds  int `yaml:"poll_seconds"`
	PollAttempts int `yaml:"poll_attempts"`
}

type MetadataConfig struct {
	GroqModel    string `yaml:"groq_model"`
	WhisperModel string `yaml:"whisper_model"`
	GeminiModel  string `yaml:"gemini_model"`
	PrefixMB     int    `yaml:"prefix_mb"`
	FrameCount   int    `yaml:"frame_count"`
}

type ArchiveConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

type ToolsConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

// Load reads .env, environment variables and config.yaml. Credentials
// come from the environment, tunables from YAML. When SECRETS_PROJECT
// is set, credentials missing from the environment are fetched from
// Secret Manager in that project.
func Load(ctx context.Context) *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GroqAPIKey:          os.Getenv("GROQ_API_KEY"),
		YouTubeClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		YouTubeClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		YouTubeTokenPath:    getEnvOrDefault("YOUTUBE_TOKEN_PATH", defaultTokenPath),
		GCSBucket:           os.Getenv("GCS_BUCKET"),
		GeminiProject:       os.Getenv("GEMINI_PROJECT"),
		GeminiLocation:      getEnvOrDefault("GEMINI_LOCATION", defaultGeminiRegion),
		DatabasePath:        getEnvOrDefault("DATABASE_PATH", defaultDatabasePath),
	}

	loadYAMLConfig(cfg)
	applyDefaults(cfg)

	if project := os.Getenv("SECRETS_PROJECT"); project != "" {
		if err := loadSecrets(ctx, cfg, project); err != nil {
			slog.Error("Failed to load secrets", "project", project, "error", err)
		}
	}

	return cfg
}

func loadYAMLConfig(cfg *Config) {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		slog.Warn("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Drive.MaxDepth == 0 {
		cfg.Drive.MaxDepth = defaultMaxDepth
	}
	if cfg.Upload.Owner == "" {
		cfg.Upload.Owner = defaultOwner
	}
	if cfg.Upload.Hour == 0 {
		cfg.Upload.Hour = defaultUploadHour
	}
	if cfg.Upload.VideosPerDay == 0 {
		cfg.Upload.VideosPerDay = defaultVideosPerDay
	}
	if cfg.Upload.RunLimit == 0 {
		cfg.Upload.RunLimit = defaultRunLimit
	}
	if cfg.Safety.PollSeconds == 0 {
		cfg.Safety.PollSeconds = defaultPollSeconds
	}
	if cfg.Safety.PollAttempts == 0 {
		cfg.Safety.PollAttempts = defaultPollAttempts
	}
	if cfg.Metadata.GroqModel == "" {
		cfg.Metadata.GroqModel = defaultGroqModel
	}
	if cfg.Metadata.WhisperModel == "" {
		cfg.Metadata.WhisperModel = defaultWhisperModel
	}
	if cfg.Metadata.GeminiModel == "" {
		cfg.Metadata.GeminiModel = defaultGeminiModel
	}
	if cfg.Metadata.PrefixMB == 0 {
		cfg.Metadata.PrefixMB = defaultPrefixMB
	}
	if cfg.Metadata.FrameCount == 0 {
		cfg.Metadata.FrameCount = defaultFrameCount
	}
	if cfg.Archive.Dir == "" {
		cfg.Archive.Dir = defaultArchiveDir
	}
	if cfg.Archive.Prefix == "" {
		cfg.Archive.Prefix = defaultArchivePrefix
	}
}

// loadSecrets fills credentials that were not provided via environment.
func loadSecrets(ctx context.Context, cfg *Config, project string) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create secret manager client: %w", err)
	}
	defer func() { _ = client.Close() }()

	secrets := map[string]*string{
		"groq-api-key":          &cfg.GroqAPIKey,
		"youtube-client-id":     &cfg.YouTubeClientID,
		"youtube-client-secret": &cfg.YouTubeClientSecret,
	}

	for name, dest := range secrets {
		if *dest != "" {
			continue
		}
		resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
			Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", project, name),
		})
		if err != nil {
			slog.Warn("Secret not available", "secret", name, "error", err)
			continue
		}
		*dest = string(resp.Payload.Data)
	}

	return nil
}

// PrefixBytes returns the transcription download cap in bytes.
func (c *Config) PrefixBytes() int64 {
	return int64(c.Metadata.PrefixMB) << 20
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
