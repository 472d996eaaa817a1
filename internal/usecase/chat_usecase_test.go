package usecase

import (
	"context"
	"errors"
	"testing"

	"fin-advisor/internal/domain/chat"
	"fin-advisor/internal/domain/profile"
	"fin-advisor/internal/infrastructure/agent"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockBackend struct {
	resp agent.SendResponse
	err  error

	lastReq agent.SendRequest
}

func (m *mockBackend) SendMessage(_ context.Context, req agent.SendRequest) (agent.SendResponse, error) {
	m.lastReq = req
	return m.resp, m.err
}

func (m *mockBackend) SystemStatus(context.Context) (agent.SystemStatus, error) {
	return agent.SystemStatus{}, nil
}

type mockHistoryRepo struct {
	store   map[string]chat.History
	saveErr error
	getErr  error
}

func newMockHistoryRepo() *mockHistoryRepo {
	return &mockHistoryRepo{store: map[string]chat.History{}}
}

func (m *mockHistoryRepo) GetBySessionID(_ context.Context, sessionID string) (chat.History, error) {
	if m.getErr != nil {
		return chat.History{}, m.getErr
	}
	h, ok := m.store[sessionID]
	if !ok {
		return chat.History{}, chat.ErrNotFound
	}
	return h, nil
}

func (m *mockHistoryRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]chat.History, error) {
	var out []chat.History
	for _, h := range m.store {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *mockHistoryRepo) Save(_ context.Context, h chat.History) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.store[h.SessionID] = h
	return nil
}

func (m *mockHistoryRepo) Delete(_ context.Context, sessionID string, userID uuid.UUID) error {
	h, ok := m.store[sessionID]
	if !ok || h.UserID != userID {
		return chat.ErrNotFound
	}
	delete(m.store, sessionID)
	return nil
}

func (m *mockHistoryRepo) DeleteAllByUserID(_ context.Context, userID uuid.UUID) error {
	for id, h := range m.store {
		if h.UserID == userID {
			delete(m.store, id)
		}
	}
	return nil
}

type mockProfileRepo struct {
	p   profile.UserProfile
	err error
}

func (m mockProfileRepo) GetByUserID(context.Context, uuid.UUID) (profile.UserProfile, error) {
	if m.err != nil {
		return profile.UserProfile{}, m.err
	}
	return m.p, nil
}

func (m mockProfileRepo) Upsert(context.Context, profile.UserProfile) error { return nil }

func newChatUC(backend agent.Backend, hist chat.Repository) *Chat {
	return NewChatUsecase(backend, hist, mockProfileRepo{err: profile.ErrNotFound}, zap.NewNop())
}

func TestChatSend_NewSessionSeedsGreeting(t *testing.T) {
	backend := &mockBackend{resp: agent.SendResponse{ResponseText: "Diversify.", SessionID: "s1", AgentID: "investment"}}
	hist := newMockHistoryRepo()
	uc := newChatUC(backend, hist)

	userID := uuid.New()
	res, err := uc.Send(context.Background(), SendInput{UserID: userID, Message: "Where should I invest?"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.SessionID != "s1" {
		t.Fatalf("expected backend session id, got %q", res.SessionID)
	}

	h := hist.store["s1"]
	if len(h.Messages) != 3 {
		t.Fatalf("expected greeting + user + reply, got %d messages", len(h.Messages))
	}
	if h.Messages[0].Agent != chat.AgentGreeting {
		t.Fatalf("first message should be the greeting")
	}
	if h.Title != "Where should I invest?" {
		t.Fatalf("unexpected title %q", h.Title)
	}
	if h.UserID != userID {
		t.Fatalf("history owner mismatch")
	}
}

func TestChatSend_SecondExchangeAppends(t *testing.T) {
	backend := &mockBackend{resp: agent.SendResponse{ResponseText: "ok", SessionID: "s1"}}
	hist := newMockHistoryRepo()
	uc := newChatUC(backend, hist)

	userID := uuid.New()
	for i := 0; i < 2; i++ {
		if _, err := uc.Send(context.Background(), SendInput{UserID: userID, SessionID: "s1", Message: "hi"}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	if got := len(hist.store["s1"].Messages); got != 5 {
		t.Fatalf("expected 1+2N=5 messages after two exchanges, got %d", got)
	}
}

func TestChatSend_BackendFailuresBecomeFallbackReplies(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{agent.ErrUnavailable, "The AI service is currently unavailable. Please try again in a moment."},
		{agent.ErrRateLimited, "I'm receiving too many requests right now. Please wait a moment and try again."},
		{agent.ErrBackend, "I apologize, but I encountered an error processing your request. Please try again."},
		{errors.New("boom"), "I apologize, but I encountered an error processing your request. Please try again."},
	}

	for _, tc := range cases {
		backend := &mockBackend{err: tc.err}
		hist := newMockHistoryRepo()
		uc := newChatUC(backend, hist)

		res, err := uc.Send(context.Background(), SendInput{UserID: uuid.New(), SessionID: "s1", Message: "hi"})
		if err != nil {
			t.Fatalf("%v: failure should still produce a reply, got err %v", tc.err, err)
		}
		if res.Reply.Content != tc.want {
			t.Fatalf("%v: unexpected fallback %q", tc.err, res.Reply.Content)
		}
		if res.Reply.Agent != chat.AgentError {
			t.Fatalf("%v: fallback should be tagged as error agent", tc.err)
		}
		if len(hist.store["s1"].Messages) != 3 {
			t.Fatalf("%v: fallback exchange should still be persisted", tc.err)
		}
	}
}

func TestChatSend_SessionExpiredPassesThrough(t *testing.T) {
	backend := &mockBackend{err: agent.ErrSessionExpired}
	hist := newMockHistoryRepo()
	uc := newChatUC(backend, hist)

	_, err := uc.Send(context.Background(), SendInput{UserID: uuid.New(), SessionID: "s1", Message: "hi"})
	if !errors.Is(err, agent.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if len(hist.store) != 0 {
		t.Fatalf("nothing should be saved on session expiry")
	}
}

func TestChatSend_SaveFailureIsSwallowed(t *testing.T) {
	backend := &mockBackend{resp: agent.SendResponse{ResponseText: "ok", SessionID: "s1"}}
	hist := newMockHistoryRepo()
	hist.saveErr = errors.New("db down")
	uc := newChatUC(backend, hist)

	res, err := uc.Send(context.Background(), SendInput{UserID: uuid.New(), Message: "hi"})
	if err != nil {
		t.Fatalf("save failure must not fail the exchange: %v", err)
	}
	if res.Reply.Content != "ok" {
		t.Fatalf("reply should still come back")
	}
}

func TestChatSend_TranscriptionBecomesUserMessage(t *testing.T) {
	backend := &mockBackend{resp: agent.SendResponse{
		ResponseText:  "noted",
		SessionID:     "s1",
		Transcription: "how do I lower my taxes",
	}}
	hist := newMockHistoryRepo()
	uc := newChatUC(backend, hist)

	res, err := uc.Send(context.Background(), SendInput{
		UserID:        uuid.New(),
		Audio:         []byte{1, 2, 3},
		AudioFilename: "recording.webm",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.UserMessage.Content != "how do I lower my taxes" {
		t.Fatalf("user message should carry the transcription, got %q", res.UserMessage.Content)
	}
	if hist.store["s1"].Title != "how do I lower my taxes" {
		t.Fatalf("title should derive from the transcription")
	}
	if backend.lastReq.AudioFilename != "recording.webm" {
		t.Fatalf("audio metadata should reach the backend")
	}
}

func TestChatGetHistory_OwnershipEnforced(t *testing.T) {
	hist := newMockHistoryRepo()
	owner := uuid.New()
	hist.store["s1"] = chat.History{SessionID: "s1", UserID: owner}
	uc := newChatUC(&mockBackend{}, hist)

	if _, err := uc.GetHistory(context.Background(), owner, "s1"); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := uc.GetHistory(context.Background(), uuid.New(), "s1"); !errors.Is(err, ErrHistoryNotFound) {
		t.Fatalf("foreign session should look like not-found, got %v", err)
	}
}

func TestChatDeleteHistory_NotFound(t *testing.T) {
	uc := newChatUC(&mockBackend{}, newMockHistoryRepo())
	if err := uc.DeleteHistory(context.Background(), uuid.New(), "missing"); !errors.Is(err, ErrHistoryNotFound) {
		t.Fatalf("expected ErrHistoryNotFound, got %v", err)
	}
}
