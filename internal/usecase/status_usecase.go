package usecase

import (
	"context"
	"errors"
	"time"

	"fin-advisor/internal/infrastructure/agent"
	"fin-advisor/internal/infrastructure/cache"

	"go.uber.org/zap"
)

const statusCacheKey = "advisor:system_status"

type StatusUsecase interface {
	SystemStatus(ctx context.Context) (agent.SystemStatus, error)
}

// Status serves the agents/tools dashboard. Results are cached briefly so a
// page of polling clients does not hammer the platform.
type Status struct {
	backend agent.Backend
	cache   *cache.Redis
	ttl     time.Duration
	logger  *zap.Logger
}

func NewStatusUsecase(backend agent.Backend, c *cache.Redis, ttl time.Duration, logger *zap.Logger) *Status {
	return &Status{backend: backend, cache: c, ttl: ttl, logger: logger}
}

func (s *Status) SystemStatus(ctx context.Context) (agent.SystemStatus, error) {
	var cached agent.SystemStatus
	if err := s.cache.GetJSON(ctx, statusCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("status cache read failed", zap.Error(err))
	}

	st, err := s.backend.SystemStatus(ctx)
	if err != nil {
		return agent.SystemStatus{}, err
	}

	if err := s.cache.SetJSON(ctx, statusCacheKey, st, s.ttl); err != nil {
		s.logger.Warn("status cache write failed", zap.Error(err))
	}
	return st, nil
}
