package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/aouyang1/repogallery/api/models"
	"github.com/aouyang1/repogallery/config"
	"github.com/aouyang1/repogallery/gallery"
	"github.com/aouyang1/repogallery/util"
	"github.com/hashicorp/go-retryablehttp"
)

const userAgent = "repogallery"

// retryLogger implements the retryablehttp.LeveledLogger interface on top of slog
type retryLogger struct{}

func (retryLogger) Error(msg string, keysAndValues ...interface{}) {
	slog.Error(msg, keysAndValues...)
}

func (retryLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug(msg, keysAndValues...)
}

func (retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	slog.Debug(msg, keysAndValues...)
}

func (retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	slog.Warn(msg, keysAndValues...)
}

// GitHubClient lists a repository directory through the contents API and
// downloads single files from the raw-content host.
type GitHubClient struct {
	apiHost string
	rawHost string
	owner   string
	repo    string
	branch  string
	folder  string
	token   string

	listClient *http.Client
	rawClient  *http.Client
}

func NewGitHubClient(cfg *config.Config) *GitHubClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryMax
	retryClient.HTTPClient.Timeout = cfg.HTTPTimeout
	retryClient.Logger = retryLogger{}

	return &GitHubClient{
		apiHost:    strings.TrimSuffix(cfg.APIHost, "/"),
		rawHost:    strings.TrimSuffix(cfg.RawHost, "/"),
		owner:      cfg.Owner,
		repo:       cfg.Repo,
		branch:     cfg.Branch,
		folder:     strings.Trim(cfg.Folder, "/"),
		token:      cfg.GitHubToken,
		listClient: retryClient.StandardClient(),
		rawClient:  &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

// Endpoint is the contents API URL of the configured directory.
func (gc *GitHubClient) Endpoint() string {
	segments := []string{gc.apiHost, "repos", url.PathEscape(gc.owner), url.PathEscape(gc.repo), "contents"}
	if gc.folder != "" {
		segments = append(segments, escapePath(gc.folder))
	}
	endpoint := strings.Join(segments, "/")
	if gc.branch != "" {
		endpoint += "?ref=" + url.QueryEscape(gc.branch)
	}
	return endpoint
}

// ImageURL is the raw-content URL of name inside the configured directory.
func (gc *GitHubClient) ImageURL(name string) string {
	segments := []string{gc.rawHost, url.PathEscape(gc.owner), url.PathEscape(gc.repo), url.PathEscape(gc.branch)}
	if gc.folder != "" {
		segments = append(segments, escapePath(gc.folder))
	}
	segments = append(segments, url.PathEscape(name))
	return strings.Join(segments, "/")
}

// ListImages returns the supported image names of the directory in API order.
// On failure it returns an empty slice together with an error wrapping
// gallery.ErrListingFetch.
func (gc *GitHubClient) ListImages(ctx context.Context) ([]string, error) {
	images := []string{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, gc.Endpoint(), nil)
	if err != nil {
		return images, fmt.Errorf("%w: failed to create request: %w", gallery.ErrListingFetch, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if gc.token != "" {
		req.Header.Set("Authorization", "Bearer "+gc.token)
	}

	resp, err := gc.listClient.Do(req)
	if err != nil {
		return images, fmt.Errorf("%w: failed to send request: %w", gallery.ErrListingFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return images, fmt.Errorf("%w: failed to read response: %w", gallery.ErrListingFetch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp models.GitHubError
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
			return images, fmt.Errorf("%w: server returned status %d: %s", gallery.ErrListingFetch, resp.StatusCode, errResp.Message)
		}
		return images, fmt.Errorf("%w: server returned status %d", gallery.ErrListingFetch, resp.StatusCode)
	}

	var entries []models.ContentEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return images, fmt.Errorf("%w: failed to parse response: %w", gallery.ErrListingFetch, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	images = util.FilterImages(names)

	slog.Debug("listed repository images", "endpoint", gc.Endpoint(), "entries", len(entries), "images", len(images))
	return images, nil
}

// FetchImage downloads name from the raw-content host. Only a 200 yields
// bytes; anything else is an error wrapping gallery.ErrImageFetch.
func (gc *GitHubClient) FetchImage(ctx context.Context, name string) ([]byte, error) {
	imageURL := gc.ImageURL(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", gallery.ErrImageFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := gc.rawClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %w", gallery.ErrImageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s returned status %d", gallery.ErrImageFetch, name, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", gallery.ErrImageFetch, name, err)
	}
	return data, nil
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
