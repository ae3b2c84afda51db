// Package models tracks all api models for request and responses
package models

import "github.com/aouyang1/repogallery/store"

// ContentEntry is one item of a GitHub contents listing. Only Name is
// required; the rest is kept for logging.
type ContentEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

// GitHubError is the body GitHub sends alongside non-2xx statuses.
type GitHubError struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}

type ImageListResponse struct {
	Images  []string `json:"images"`
	Total   int      `json:"total"`
	Warning string   `json:"warning,omitempty"`
}

type UpdateSettingsRequest struct {
	ViewMode string `form:"view_mode" json:"view_mode"`
	Shuffle  bool   `form:"shuffle" json:"shuffle"`
}

type JumpRequest struct {
	Position int `form:"position" json:"position"`
}

type SessionResponse struct {
	Session *store.Session `json:"session"`
	Total   int            `json:"total"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
