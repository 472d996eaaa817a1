package seeder

import (
	"context"

	"fin-advisor/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
