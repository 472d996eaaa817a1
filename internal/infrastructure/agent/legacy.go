package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// LegacyClient speaks the older versioned REST contract under /api/v1,
// bearer-token authenticated. A 401 clears the stored token and surfaces
// ErrSessionExpired; the caller decides how to send the user back to login.
type LegacyClient struct {
	baseURL    string
	tokens     TokenStore
	httpClient *http.Client
}

func NewLegacyClient(baseURL string, tokens TokenStore, timeout time.Duration) *LegacyClient {
	return &LegacyClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type legacyChatRequest struct {
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

type legacyChatResponse struct {
	Response       string         `json:"response"`
	AgentUsed      string         `json:"agent_used"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	ConversationID string         `json:"conversation_id"`
	SessionID      string         `json:"session_id"`
}

type legacyAgentStatusResponse struct {
	Agents          []AgentStatus `json:"agents"`
	TotalAgents     int           `json:"total_agents"`
	AvailableAgents int           `json:"available_agents"`
}

func (c *LegacyClient) SendMessage(ctx context.Context, req SendRequest) (SendResponse, error) {
	body := legacyChatRequest{Message: req.Message}
	if req.Profile != nil {
		body.Context = req.Profile
	}

	var out legacyChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/chat/message", body, &out); err != nil {
		return SendResponse{}, err
	}

	return SendResponse{
		ResponseText: out.Response,
		SessionID:    out.SessionID,
		AgentID:      out.AgentUsed,
		TimingInfo:   out.Metadata,
	}, nil
}

func (c *LegacyClient) SystemStatus(ctx context.Context) (SystemStatus, error) {
	var out legacyAgentStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/chat/agents/status", nil, &out); err != nil {
		return SystemStatus{}, err
	}

	return SystemStatus{
		Agents:          out.Agents,
		TotalAgents:     out.TotalAgents,
		AvailableAgents: out.AvailableAgents,
		Healthy:         out.AvailableAgents > 0,
	}, nil
}

func (c *LegacyClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if tok, ok := c.tokens.Token(); ok {
		httpReq.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("advisor request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Clear()
		return ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
