// Package config resolves the gallery settings from GALLERY_* environment
// variables on top of compiled-in defaults.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	DefaultAddr        = "0.0.0.0:8080"
	DefaultOwner       = "sukshender01"
	DefaultRepo        = "imagegallery"
	DefaultBranch      = "main"
	DefaultFolder      = ""
	DefaultAPIHost     = "https://api.github.com"
	DefaultRawHost     = "https://raw.githubusercontent.com"
	DefaultSource      = SourceGitHub
	DefaultRetryMax    = 2
	DefaultHTTPTimeout = 30 * time.Second
	DefaultSessionTTL  = 24 * time.Hour
	DefaultPresignTTL  = 15 * time.Minute
)

const (
	SourceGitHub = "github"
	SourceS3     = "s3"
)

type Config struct {
	Addr string

	// image source
	Source      string
	Owner       string
	Repo        string
	Branch      string
	Folder      string
	APIHost     string
	RawHost     string
	GitHubToken string

	AWSProfile string
	S3Bucket   string
	S3Prefix   string
	PresignTTL time.Duration

	RetryMax    int
	HTTPTimeout time.Duration
	SessionTTL  time.Duration
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Addr:        DefaultAddr,
		Source:      DefaultSource,
		Owner:       DefaultOwner,
		Repo:        DefaultRepo,
		Branch:      DefaultBranch,
		Folder:      DefaultFolder,
		APIHost:     DefaultAPIHost,
		RawHost:     DefaultRawHost,
		PresignTTL:  DefaultPresignTTL,
		RetryMax:    DefaultRetryMax,
		HTTPTimeout: DefaultHTTPTimeout,
		SessionTTL:  DefaultSessionTTL,
	}
}

// Load applies the environment over Default.
func Load() *Config {
	cfg := Default()

	cfg.Addr = envString("GALLERY_ADDR", cfg.Addr)
	cfg.Source = envString("GALLERY_SOURCE", cfg.Source)
	cfg.Owner = envString("GALLERY_OWNER", cfg.Owner)
	cfg.Repo = envString("GALLERY_REPO", cfg.Repo)
	cfg.Branch = envString("GALLERY_BRANCH", cfg.Branch)
	cfg.Folder = envString("GALLERY_FOLDER", cfg.Folder)
	cfg.APIHost = envString("GALLERY_API_HOST", cfg.APIHost)
	cfg.RawHost = envString("GALLERY_RAW_HOST", cfg.RawHost)
	cfg.GitHubToken = envString("GALLERY_GITHUB_TOKEN", cfg.GitHubToken)

	cfg.AWSProfile = envString("GALLERY_AWS_PROFILE", cfg.AWSProfile)
	cfg.S3Bucket = envString("GALLERY_S3_BUCKET", cfg.S3Bucket)
	cfg.S3Prefix = envString("GALLERY_S3_PREFIX", cfg.S3Prefix)
	cfg.PresignTTL = envDuration("GALLERY_PRESIGN_TTL", cfg.PresignTTL)

	cfg.RetryMax = envInt("GALLERY_RETRY_MAX", cfg.RetryMax)
	cfg.HTTPTimeout = envDuration("GALLERY_HTTP_TIMEOUT", cfg.HTTPTimeout)
	cfg.SessionTTL = envDuration("GALLERY_SESSION_TTL", cfg.SessionTTL)

	return cfg
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("unable to parse environment variable, using default", key, v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("unable to parse environment variable, using default", key, v, "default", def)
		return def
	}
	return d
}
