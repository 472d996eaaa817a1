package dto

import (
	"time"

	"fin-advisor/internal/domain/chat"
)

type MessageResponse struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Role      string         `json:"role"`
	Timestamp time.Time      `json:"timestamp"`
	Agent     string         `json:"agent,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type ChatSendResponse struct {
	SessionID    string          `json:"session_id"`
	UserMessage  MessageResponse `json:"user_message"`
	Reply        MessageResponse `json:"reply"`
	RequiresAuth bool            `json:"requires_auth,omitempty"`
	AuthURL      string          `json:"auth_url,omitempty"`
	AuthMessage  string          `json:"auth_message,omitempty"`
}

// HistorySummaryResponse is the list view: no message bodies.
type HistorySummaryResponse struct {
	SessionID    string    `json:"session_id"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type HistoryResponse struct {
	SessionID string            `json:"session_id"`
	Title     string            `json:"title"`
	Messages  []MessageResponse `json:"messages"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func NewMessageResponse(m chat.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		Content:   m.Content,
		Role:      m.Role,
		Timestamp: m.Timestamp,
		Agent:     m.Agent,
		Metadata:  m.Metadata,
	}
}

func NewHistorySummaryResponse(h chat.History) HistorySummaryResponse {
	return HistorySummaryResponse{
		SessionID:    h.SessionID,
		Title:        h.Title,
		MessageCount: len(h.Messages),
		CreatedAt:    h.CreatedAt,
		UpdatedAt:    h.UpdatedAt,
	}
}

func NewHistoryResponse(h chat.History) HistoryResponse {
	msgs := make([]MessageResponse, 0, len(h.Messages))
	for _, m := range h.Messages {
		msgs = append(msgs, NewMessageResponse(m))
	}
	return HistoryResponse{
		SessionID: h.SessionID,
		Title:     h.Title,
		Messages:  msgs,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
}
