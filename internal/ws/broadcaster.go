package ws

import (
	"context"
	"encoding/json"
	"time"

	"fin-advisor/internal/usecase"

	"go.uber.org/zap"
)

type statusEvent struct {
	Type      string `json:"type"`
	Status    any    `json:"status"`
	Timestamp string `json:"timestamp"`
}

// StatusBroadcaster pushes the advisor system status to connected dashboard
// clients on a fixed interval. Polling pauses while nobody is connected.
type StatusBroadcaster struct {
	hub      *Hub
	status   usecase.StatusUsecase
	interval time.Duration
	logger   *zap.Logger
}

func NewStatusBroadcaster(hub *Hub, status usecase.StatusUsecase, interval time.Duration, logger *zap.Logger) *StatusBroadcaster {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &StatusBroadcaster{hub: hub, status: status, interval: interval, logger: logger}
}

func (b *StatusBroadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if b.hub.ClientCount() == 0 {
				continue
			}
			b.push(ctx)
		}
	}
}

func (b *StatusBroadcaster) push(ctx context.Context) {
	st, err := b.status.SystemStatus(ctx)
	if err != nil {
		b.logger.Warn("status broadcast skipped", zap.Error(err))
		return
	}

	evt := statusEvent{
		Type:      "system_status",
		Status:    st,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	msg, err := json.Marshal(evt)
	if err != nil {
		return
	}
	b.hub.Broadcast(msg)
}
