package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/retailops/backend/internal/domain/shared"
)

// ActivityLogHandler records every domain event to the structured log,
// giving each tenant an audit trail of replenishment activity without a
// dedicated store. It subscribes as a wildcard handler.
type ActivityLogHandler struct {
	logger *zap.Logger
}

func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{logger: logger}
}

// EventTypes returns nil so the handler receives all events.
func (h *ActivityLogHandler) EventTypes() []string {
	return nil
}

func (h *ActivityLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("domain event",
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("tenant_id", event.TenantID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

var _ shared.EventHandler = (*ActivityLogHandler)(nil)
