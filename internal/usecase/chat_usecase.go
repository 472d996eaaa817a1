package usecase

import (
	"context"
	"errors"

	"fin-advisor/internal/domain/chat"
	"fin-advisor/internal/domain/profile"
	"fin-advisor/internal/infrastructure/agent"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrHistoryNotFound = errors.New("chat history not found")

// Fallback texts shown as assistant messages when the advisor platform
// fails. The exchange still succeeds from the client's point of view.
const (
	fallbackUnavailable = "The AI service is currently unavailable. Please try again in a moment."
	fallbackRateLimited = "I'm receiving too many requests right now. Please wait a moment and try again."
	fallbackGeneric     = "I apologize, but I encountered an error processing your request. Please try again."
)

// SendInput is one outgoing user turn. SessionID is empty for a new
// conversation; Audio switches the exchange to voice.
type SendInput struct {
	UserID    uuid.UUID
	SessionID string
	Message   string

	Audio            []byte
	AudioFilename    string
	AudioContentType string
}

// SendResult is the completed exchange: the (possibly backend-issued)
// session id and the two messages appended to it.
type SendResult struct {
	SessionID    string
	UserMessage  chat.Message
	Reply        chat.Message
	RequiresAuth bool
	AuthURL      string
	AuthMessage  string
}

type ChatUsecase interface {
	Send(ctx context.Context, in SendInput) (SendResult, error)
	ListHistories(ctx context.Context, userID uuid.UUID) ([]chat.History, error)
	GetHistory(ctx context.Context, userID uuid.UUID, sessionID string) (chat.History, error)
	DeleteHistory(ctx context.Context, userID uuid.UUID, sessionID string) error
	ClearHistories(ctx context.Context, userID uuid.UUID) error
}

type Chat struct {
	backend  agent.Backend
	history  chat.Repository
	profiles profile.Repository
	logger   *zap.Logger
}

func NewChatUsecase(backend agent.Backend, history chat.Repository, profiles profile.Repository, logger *zap.Logger) *Chat {
	return &Chat{backend: backend, history: history, profiles: profiles, logger: logger}
}

func (c *Chat) Send(ctx context.Context, in SendInput) (SendResult, error) {
	if in.Message == "" && len(in.Audio) == 0 {
		return SendResult{}, errors.New("empty message")
	}

	req := agent.SendRequest{
		UserID:           in.UserID.String(),
		SessionID:        in.SessionID,
		Message:          in.Message,
		Profile:          c.profileContext(ctx, in.UserID),
		Audio:            in.Audio,
		AudioFilename:    in.AudioFilename,
		AudioContentType: in.AudioContentType,
	}

	resp, sendErr := c.backend.SendMessage(ctx, req)

	// Session expiry is the one failure the client must handle itself; no
	// fallback message is fabricated for it.
	if errors.Is(sendErr, agent.ErrSessionExpired) {
		return SendResult{}, sendErr
	}

	sessionID := in.SessionID
	if resp.SessionID != "" {
		sessionID = resp.SessionID
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	userContent := in.Message
	if resp.Transcription != "" {
		userContent = resp.Transcription
	}
	userMsg := chat.NewMessage(chat.RoleUser, userContent)

	var reply chat.Message
	if sendErr != nil {
		reply = chat.NewMessage(chat.RoleAssistant, fallbackFor(sendErr))
		reply.Agent = chat.AgentError
	} else {
		reply = chat.NewMessage(chat.RoleAssistant, resp.ResponseText)
		reply.Agent = resp.AgentID
		if len(resp.TimingInfo) > 0 {
			reply.Metadata = map[string]any{"timing": resp.TimingInfo}
		}
	}

	c.persist(ctx, in.UserID, sessionID, userMsg, reply)

	return SendResult{
		SessionID:    sessionID,
		UserMessage:  userMsg,
		Reply:        reply,
		RequiresAuth: resp.RequiresAuth,
		AuthURL:      resp.AuthURL,
		AuthMessage:  resp.AuthMessage,
	}, nil
}

// persist appends the exchange to the session history. Failures are logged
// and swallowed: the user already has the reply, losing the transcript is
// the lesser harm.
func (c *Chat) persist(ctx context.Context, userID uuid.UUID, sessionID string, msgs ...chat.Message) {
	h, err := c.history.GetBySessionID(ctx, sessionID)
	switch {
	case err == nil:
		if h.UserID != userID {
			c.logger.Warn("session owned by another user, not saving",
				zap.String("session_id", sessionID), zap.String("user_id", userID.String()))
			return
		}
	case errors.Is(err, chat.ErrNotFound):
		h = chat.History{
			SessionID: sessionID,
			UserID:    userID,
			Messages:  []chat.Message{chat.GreetingMessage()},
		}
	default:
		c.logger.Error("chat history load failed",
			zap.String("session_id", sessionID), zap.Error(err))
		return
	}

	h.Messages = append(h.Messages, msgs...)
	if first, ok := chat.FirstUserMessage(h.Messages); ok {
		h.Title = chat.TitleFrom(first)
	}

	if err := c.history.Save(ctx, h); err != nil {
		c.logger.Error("chat history save failed",
			zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (c *Chat) ListHistories(ctx context.Context, userID uuid.UUID) ([]chat.History, error) {
	return c.history.ListByUserID(ctx, userID)
}

func (c *Chat) GetHistory(ctx context.Context, userID uuid.UUID, sessionID string) (chat.History, error) {
	h, err := c.history.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			return chat.History{}, ErrHistoryNotFound
		}
		return chat.History{}, err
	}
	if h.UserID != userID {
		return chat.History{}, ErrHistoryNotFound
	}
	return h, nil
}

func (c *Chat) DeleteHistory(ctx context.Context, userID uuid.UUID, sessionID string) error {
	err := c.history.Delete(ctx, sessionID, userID)
	if errors.Is(err, chat.ErrNotFound) {
		return ErrHistoryNotFound
	}
	return err
}

func (c *Chat) ClearHistories(ctx context.Context, userID uuid.UUID) error {
	return c.history.DeleteAllByUserID(ctx, userID)
}

// profileContext loads the user's profile for the platform. A missing or
// unreadable profile degrades to no context rather than blocking the chat.
func (c *Chat) profileContext(ctx context.Context, userID uuid.UUID) map[string]any {
	p, err := c.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			c.logger.Warn("profile load for chat context failed",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
		return nil
	}
	if !p.ProfileCompleted {
		return nil
	}

	m := map[string]any{
		"name":                 p.Name,
		"age":                  p.Age,
		"gender":               p.Gender,
		"marital_status":       p.MaritalStatus,
		"employment_status":    p.EmploymentStatus,
		"monthly_income":       p.MonthlyIncome.InexactFloat64(),
		"has_spouse":           p.HasSpouse,
		"has_parents":          p.HasParents,
		"has_kids":             p.HasKids,
		"state":                p.State,
		"city":                 p.City,
		"has_life_insurance":   p.HasLifeInsurance,
		"has_health_insurance": p.HasHealthInsurance,
	}
	if p.IndustryType != nil {
		m["industry_type"] = *p.IndustryType
	}
	if p.KidsCount != nil {
		m["kids_count"] = *p.KidsCount
	}
	if p.LifeClaimLimit != nil {
		m["life_claim_limit"] = p.LifeClaimLimit.InexactFloat64()
	}
	if p.HealthClaimLimit != nil {
		m["health_claim_limit"] = p.HealthClaimLimit.InexactFloat64()
	}
	return m
}

func fallbackFor(err error) string {
	switch {
	case errors.Is(err, agent.ErrUnavailable):
		return fallbackUnavailable
	case errors.Is(err, agent.ErrRateLimited):
		return fallbackRateLimited
	default:
		return fallbackGeneric
	}
}
