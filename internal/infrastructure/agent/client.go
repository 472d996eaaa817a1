// Package agent holds the HTTP clients for the external advisor platform.
// Three interchangeable backend variants exist; callers pick one through
// NewFromConfig and speak to it through the Backend interface.
package agent

import (
	"context"
	"errors"
	"net/http"
)

var (
	// ErrUnavailable maps HTTP 503 from any variant.
	ErrUnavailable = errors.New("advisor backend unavailable")
	// ErrRateLimited maps HTTP 429.
	ErrRateLimited = errors.New("advisor backend rate limited")
	// ErrSessionExpired is returned by the legacy variant after a 401; the
	// stored token has already been cleared when callers see it.
	ErrSessionExpired = errors.New("advisor session expired")
	// ErrBackend covers every other non-2xx response.
	ErrBackend = errors.New("advisor backend error")
)

type SendRequest struct {
	UserID    string
	SessionID string
	Message   string
	// Profile is optional context forwarded verbatim to the platform.
	Profile map[string]any

	// Audio, when set, switches the primary variant to a multipart upload.
	Audio            []byte
	AudioFilename    string
	AudioContentType string
}

type SendResponse struct {
	ResponseText string
	SessionID    string
	AgentID      string
	TimingInfo   map[string]any
	// Transcription is set for voice requests: the text the platform heard.
	Transcription string

	RequiresAuth bool
	AuthURL      string
	AuthMessage  string
}

type AgentStatus struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type ToolStatus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Available   bool   `json:"available"`
}

type SystemStatus struct {
	Agents          []AgentStatus `json:"agents"`
	Tools           []ToolStatus  `json:"tools"`
	TotalAgents     int           `json:"total_agents"`
	AvailableAgents int           `json:"available_agents"`
	Healthy         bool          `json:"healthy"`
}

// Backend is one advisor platform variant. Implementations never retry; a
// failure surfaces directly so the chat layer can classify it.
type Backend interface {
	SendMessage(ctx context.Context, req SendRequest) (SendResponse, error)
	SystemStatus(ctx context.Context) (SystemStatus, error)
}

func classifyStatus(code int) error {
	switch code {
	case http.StatusServiceUnavailable:
		return ErrUnavailable
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrBackend
	}
}
