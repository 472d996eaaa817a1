package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// PrimaryClient speaks the session-oriented "v2" contract: JSON for text,
// multipart with an audio field for voice, no bearer auth.
type PrimaryClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPrimaryClient(baseURL string, timeout time.Duration) *PrimaryClient {
	return &PrimaryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type primaryChatRequest struct {
	UserID      string         `json:"user_id"`
	SessionID   string         `json:"session_id,omitempty"`
	UserMessage string         `json:"user_message"`
	UserProfile map[string]any `json:"user_profile,omitempty"`
}

type primaryChatResponse struct {
	ResponseText  string         `json:"response_text"`
	SessionID     string         `json:"session_id"`
	AgentID       string         `json:"agent_id,omitempty"`
	TimingInfo    map[string]any `json:"timing_info,omitempty"`
	RequiresAuth  bool           `json:"requires_auth,omitempty"`
	AuthURL       string         `json:"auth_url,omitempty"`
	AuthMessage   string         `json:"auth_message,omitempty"`
	Transcription string         `json:"transcription,omitempty"`
}

func (c *PrimaryClient) SendMessage(ctx context.Context, req SendRequest) (SendResponse, error) {
	if len(req.Audio) > 0 {
		return c.sendVoice(ctx, req)
	}
	return c.sendText(ctx, req)
}

func (c *PrimaryClient) sendText(ctx context.Context, req SendRequest) (SendResponse, error) {
	payload, err := json.Marshal(primaryChatRequest{
		UserID:      req.UserID,
		SessionID:   req.SessionID,
		UserMessage: req.Message,
		UserProfile: req.Profile,
	})
	if err != nil {
		return SendResponse{}, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return SendResponse{}, fmt.Errorf("create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.doChat(httpReq)
}

func (c *PrimaryClient) sendVoice(ctx context.Context, req SendRequest) (SendResponse, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := w.WriteField("user_id", req.UserID); err != nil {
		return SendResponse{}, fmt.Errorf("write multipart field: %w", err)
	}
	if req.SessionID != "" {
		if err := w.WriteField("session_id", req.SessionID); err != nil {
			return SendResponse{}, fmt.Errorf("write multipart field: %w", err)
		}
	}
	if req.Profile != nil {
		raw, err := json.Marshal(req.Profile)
		if err != nil {
			return SendResponse{}, fmt.Errorf("marshal profile: %w", err)
		}
		if err := w.WriteField("user_profile", string(raw)); err != nil {
			return SendResponse{}, fmt.Errorf("write multipart field: %w", err)
		}
	}

	filename := req.AudioFilename
	if filename == "" {
		filename = "recording.webm"
	}
	part, err := w.CreateFormFile("audio", filename)
	if err != nil {
		return SendResponse{}, fmt.Errorf("create audio part: %w", err)
	}
	if _, err := part.Write(req.Audio); err != nil {
		return SendResponse{}, fmt.Errorf("write audio part: %w", err)
	}
	if err := w.Close(); err != nil {
		return SendResponse{}, fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", &body)
	if err != nil {
		return SendResponse{}, fmt.Errorf("create voice request: %w", err)
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	return c.doChat(httpReq)
}

func (c *PrimaryClient) doChat(httpReq *http.Request) (SendResponse, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return SendResponse{}, fmt.Errorf("advisor request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SendResponse{}, classifyStatus(resp.StatusCode)
	}

	var out primaryChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return SendResponse{}, fmt.Errorf("decode chat response: %w", err)
	}

	return SendResponse{
		ResponseText:  out.ResponseText,
		SessionID:     out.SessionID,
		AgentID:       out.AgentID,
		TimingInfo:    out.TimingInfo,
		RequiresAuth:  out.RequiresAuth,
		AuthURL:       out.AuthURL,
		AuthMessage:   out.AuthMessage,
		Transcription: out.Transcription,
	}, nil
}

func (c *PrimaryClient) SystemStatus(ctx context.Context) (SystemStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return SystemStatus{}, fmt.Errorf("create status request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return SystemStatus{}, fmt.Errorf("advisor status request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SystemStatus{}, classifyStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SystemStatus{}, fmt.Errorf("read status response: %w", err)
	}

	var out SystemStatus
	if err := json.Unmarshal(body, &out); err != nil {
		return SystemStatus{}, fmt.Errorf("decode status response: %w", err)
	}
	return out, nil
}
