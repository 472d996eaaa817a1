package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("profile not found")

type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (UserProfile, error)
	// Upsert creates the record on first submit and merges on later saves;
	// profiles are never deleted by the application.
	Upsert(ctx context.Context, p UserProfile) error
}
