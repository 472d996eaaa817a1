package chat

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Agent tags carried on assistant messages so clients can style them.
const (
	AgentGreeting = "greeting"
	AgentError    = "error"
)

// Greeting seeds every new session's message list.
const Greeting = "Hi! I'm your financial advisor. Ask me anything about your finances, investments, insurance, or taxes."

const maxTitleLen = 40

// Message is immutable once stored; histories are replaced wholesale, never
// edited message-by-message.
type Message struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Role      string         `json:"role"`
	Timestamp time.Time      `json:"timestamp"`
	Agent     string         `json:"agent,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// History is one chat session: the backend-issued session id, its owner, and
// the ordered message list.
type History struct {
	SessionID string    `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewMessage(role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      role,
		Timestamp: time.Now().UTC(),
	}
}

func GreetingMessage() Message {
	m := NewMessage(RoleAssistant, Greeting)
	m.Agent = AgentGreeting
	return m
}

// TitleFrom derives a display title from the first user message.
func TitleFrom(content string) string {
	r := []rune(content)
	if len(r) <= maxTitleLen {
		return content
	}
	return string(r[:maxTitleLen]) + "..."
}

// FirstUserMessage returns the content of the earliest user-role message.
func FirstUserMessage(msgs []Message) (string, bool) {
	for _, m := range msgs {
		if m.Role == RoleUser {
			return m.Content, true
		}
	}
	return "", false
}
