package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath       = "config.yaml"
	defaultTokenPath        = "./youtube_token.json"
	defaultLegacyTokenPath  = "./youtube_token.txt"
	defaultRedirectURL      = "http://localhost:8080/callback"
	defaultGlobalMetadata   = "metadata.txt"
	defaultCategoryID       = "22"
	defaultPrivacyStatus    = "private"
	defaultMaxDuration      = 60.0
	defaultBatchSize        = 3
	defaultBatchDelay       = 10
	defaultCacheDir         = "./.cache"
	defaultClientSecretName = "youtube-client-secret"
)

var defaultExtensions = []string{".mp4", ".mov", ".mkv", ".webm", ".avi"}

type Config struct {
	YouTubeClientID     string
	YouTubeClientSecret string
	GroqAPIKey          string
	GCPProject          string

	Upload   UploadConfig   `yaml:"upload"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
	Metadata MetadataConfig `yaml:"metadata"`
	LLM      LLMConfig      `yaml:"llm"`
	Source   SourceConfig   `yaml:"source"`
}

type UploadConfig struct {
	BatchSize int `yaml:"batch_size"`
	// BatchDelay is the pause between batches in seconds.
	BatchDelay  int      `yaml:"batch_delay"`
	MaxDuration float64  `yaml:"max_duration"`
	VideoDir    string   `yaml:"video_dir"`
	Extensions  []string `yaml:"extensions"`
}

type YouTubeConfig struct {
	TokenPath       string   `yaml:"token_path"`
	LegacyTokenPath string   `yaml:"legacy_token_path"`
	RedirectURL     string   `yaml:"redirect_url"`
	CategoryID      string   `yaml:"category_id"`
	PrivacyStatus   string   `yaml:"privacy_status"`
	DefaultTags     []string `yaml:"default_tags"`
	MadeForKids     bool     `yaml:"made_for_kids"`
}

type MetadataConfig struct {
	GlobalPath  string `yaml:"global_path"`
	SidecarName string `yaml:"sidecar_name"`
}

type LLMConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
}

type SourceConfig struct {
	CacheDir string `yaml:"cache_dir"`
}

func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		YouTubeClientID:     os.Getenv("YOUTUBE_CLIENT_ID"),
		YouTubeClientSecret: os.Getenv("YOUTUBE_CLIENT_SECRET"),
		GroqAPIKey:          os.Getenv("GROQ_API_KEY"),
		GCPProject:          os.Getenv("GOOGLE_CLOUD_PROJECT"),
	}

	loadYAMLConfig(cfg)
	applyDefaults(cfg)

	if cfg.YouTubeClientSecret == "" && cfg.GCPProject != "" {
		secret, err := loadSecret(ctx, cfg.GCPProject, defaultClientSecretName)
		if err != nil {
			slog.Warn("Failed to load client secret from Secret Manager", "error", err)
		} else {
			cfg.YouTubeClientSecret = secret
		}
	}

	return cfg, nil
}

func loadYAMLConfig(cfg *Config) {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		slog.Debug("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyDefaults(cfg *Config) {
	applyUploadDefaults(cfg)
	applyYouTubeDefaults(cfg)
	applyMetadataDefaults(cfg)
	applySourceDefaults(cfg)
}

func applyUploadDefaults(cfg *Config) {
	if cfg.Upload.BatchSize == 0 {
		cfg.Upload.BatchSize = defaultBatchSize
	}
	if cfg.Upload.BatchDelay == 0 {
		cfg.Upload.BatchDelay = defaultBatchDelay
	}
	if cfg.Upload.MaxDuration == 0 {
		cfg.Upload.MaxDuration = defaultMaxDuration
	}
	if cfg.Upload.VideoDir == "" {
		cfg.Upload.VideoDir = DefaultVideoDir()
	}
	if len(cfg.Upload.Extensions) == 0 {
		cfg.Upload.Extensions = defaultExtensions
	}
}

func applyYouTubeDefaults(cfg *Config) {
	if cfg.YouTube.TokenPath == "" {
		cfg.YouTube.TokenPath = defaultTokenPath
	}
	if cfg.YouTube.LegacyTokenPath == "" {
		cfg.YouTube.LegacyTokenPath = defaultLegacyTokenPath
	}
	if cfg.YouTube.RedirectURL == "" {
		cfg.YouTube.RedirectURL = defaultRedirectURL
	}
	if cfg.YouTube.CategoryID == "" {
		cfg.YouTube.CategoryID = defaultCategoryID
	}
	if cfg.YouTube.PrivacyStatus == "" {
		cfg.YouTube.PrivacyStatus = defaultPrivacyStatus
	}
}

func applyMetadataDefaults(cfg *Config) {
	if cfg.Metadata.GlobalPath == "" {
		cfg.Metadata.GlobalPath = defaultGlobalMetadata
	}
	if cfg.Metadata.SidecarName == "" {
		cfg.Metadata.SidecarName = defaultGlobalMetadata
	}
}

func applySourceDefaults(cfg *Config) {
	if cfg.Source.CacheDir == "" {
		cfg.Source.CacheDir = defaultCacheDir
	}
}

// DefaultVideoDir returns the conventional per-platform folder for
// locally recorded videos.
func DefaultVideoDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Movies")
	default:
		return filepath.Join(home, "Videos")
	}
}

func loadSecret(ctx context.Context, project, name string) (string, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create secret manager client: %w", err)
	}
	defer func() { _ = client.Close() }()

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", project, name),
	})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}

	return string(resp.Payload.Data), nil
}
