package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPrimaryClient_SendText(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response_text": "Buy index funds.",
			"session_id":    "sess-1",
			"agent_id":      "investment",
		})
	}))
	defer srv.Close()

	c := NewPrimaryClient(srv.URL, 5*time.Second)
	resp, err := c.SendMessage(context.Background(), SendRequest{
		UserID:  "u1",
		Message: "where to invest?",
		Profile: map[string]any{"age": 30},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if gotBody["user_message"] != "where to invest?" {
		t.Fatalf("request should use user_message, got %v", gotBody)
	}
	if _, ok := gotBody["session_id"]; ok {
		t.Fatalf("empty session id must be omitted")
	}
	if gotBody["user_profile"] == nil {
		t.Fatalf("profile should be forwarded")
	}
	if resp.ResponseText != "Buy index funds." || resp.SessionID != "sess-1" || resp.AgentID != "investment" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPrimaryClient_SendVoiceMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart body: %v", err)
		}
		if r.FormValue("user_id") != "u1" {
			t.Errorf("missing user_id field")
		}
		f, fh, err := r.FormFile("audio")
		if err != nil {
			t.Errorf("missing audio part: %v", err)
		} else {
			defer f.Close()
			if fh.Filename != "recording.webm" {
				t.Errorf("default filename expected, got %q", fh.Filename)
			}
			data, _ := io.ReadAll(f)
			if string(data) != "opus" {
				t.Errorf("audio bytes mangled: %q", data)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response_text": "noted",
			"session_id":    "sess-2",
			"transcription": "hello there",
		})
	}))
	defer srv.Close()

	c := NewPrimaryClient(srv.URL, 5*time.Second)
	resp, err := c.SendMessage(context.Background(), SendRequest{
		UserID: "u1",
		Audio:  []byte("opus"),
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.Transcription != "hello there" {
		t.Fatalf("transcription lost: %+v", resp)
	}
}

func TestPrimaryClient_ErrorClassification(t *testing.T) {
	cases := []struct {
		code int
		want error
	}{
		{http.StatusServiceUnavailable, ErrUnavailable},
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusInternalServerError, ErrBackend},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.code)
		}))
		c := NewPrimaryClient(srv.URL, 5*time.Second)
		_, err := c.SendMessage(context.Background(), SendRequest{UserID: "u1", Message: "hi"})
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: expected %v, got %v", tc.code, tc.want, err)
		}
		srv.Close()
	}
}

func TestLegacyClient_BearerAndContract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat/message" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-1" {
			t.Errorf("unexpected auth header %q", auth)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["message"] != "hi" {
			t.Errorf("legacy contract uses message, got %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response":        "hello",
			"agent_used":      "tax",
			"conversation_id": "c1",
			"session_id":      "s1",
		})
	}))
	defer srv.Close()

	c := NewLegacyClient(srv.URL, NewMemoryTokenStore("tok-1"), 5*time.Second)
	resp, err := c.SendMessage(context.Background(), SendRequest{UserID: "u1", Message: "hi"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.ResponseText != "hello" || resp.AgentID != "tax" || resp.SessionID != "s1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLegacyClient_UnauthorizedClearsTokenOnce(t *testing.T) {
	var authHeaders []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := NewMemoryTokenStore("stale")
	c := NewLegacyClient(srv.URL, tokens, 5*time.Second)

	_, err := c.SendMessage(context.Background(), SendRequest{UserID: "u1", Message: "hi"})
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, ok := tokens.Token(); ok {
		t.Fatalf("token should be cleared after 401")
	}

	// The second attempt goes out without the stale token.
	_, _ = c.SendMessage(context.Background(), SendRequest{UserID: "u1", Message: "hi"})
	if len(authHeaders) != 2 || authHeaders[0] != "Bearer stale" || authHeaders[1] != "" {
		t.Fatalf("unexpected auth header sequence: %v", authHeaders)
	}
}

func TestLegacyClient_StatusHealthiness(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat/agents/status" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"agents":           []map[string]any{{"id": "tax", "name": "Tax", "status": "ready"}},
			"total_agents":     1,
			"available_agents": 1,
		})
	}))
	defer srv.Close()

	c := NewLegacyClient(srv.URL, NewMemoryTokenStore(""), 5*time.Second)
	st, err := c.SystemStatus(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !st.Healthy || st.TotalAgents != 1 {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestDemoBackend_OfflineReplies(t *testing.T) {
	b := NewDemoBackend()

	resp, err := b.SendMessage(context.Background(), SendRequest{UserID: "u1", Message: "Tell me about health insurance"})
	if err != nil {
		t.Fatalf("demo backend must not fail: %v", err)
	}
	if resp.ResponseText == "" || resp.SessionID == "" {
		t.Fatalf("demo reply incomplete: %+v", resp)
	}

	st, err := b.SystemStatus(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !st.Healthy || st.TotalAgents == 0 {
		t.Fatalf("demo status should report healthy agents: %+v", st)
	}
}
