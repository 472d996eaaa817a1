package chat

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("chat history not found")

type Repository interface {
	GetBySessionID(ctx context.Context, sessionID string) (History, error)
	// ListByUserID returns all of a user's sessions, most recently updated
	// first.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]History, error)
	// Save creates the record on the first exchange and replaces the message
	// list wholesale afterwards. Saving identical content is idempotent.
	Save(ctx context.Context, h History) error
	Delete(ctx context.Context, sessionID string, userID uuid.UUID) error
	DeleteAllByUserID(ctx context.Context, userID uuid.UUID) error
}
