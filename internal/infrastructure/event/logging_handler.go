package event

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/document"
	"github.com/forgeledger/backend/internal/domain/partner"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LoggingHandler writes one structured line per business event. It
// receives every event type.
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a LoggingHandler.
func NewLoggingHandler(l *zap.Logger) *LoggingHandler {
	return &LoggingHandler{logger: l.Named("events")}
}

// EventTypes returns nil so the handler is registered as a wildcard.
func (h *LoggingHandler) EventTypes() []string { return nil }

// Handle implements shared.EventHandler.
func (h *LoggingHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", ev.EventType()),
		zap.String("event_id", ev.EventID().String()),
		zap.String("tenant_id", ev.TenantID().String()),
		zap.String("aggregate_type", ev.AggregateType()),
		zap.String("aggregate_id", ev.AggregateID().String()),
	}
	if id := logger.GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}

	switch e := ev.(type) {
	case *tenant.RegisteredEvent:
		fields = append(fields, zap.String("slug", e.Slug))
	case *partner.PartyCreatedEvent:
		fields = append(fields, zap.String("code", e.Code))
	case *document.CreatedEvent:
		fields = append(fields,
			zap.String("kind", string(e.Kind)),
			zap.String("number", e.Number),
			zap.String("total_amount", e.TotalAmount.StringFixed(2)),
		)
	case *document.StatusChangedEvent:
		fields = append(fields,
			zap.String("kind", string(e.Kind)),
			zap.String("number", e.Number),
			zap.String("from", string(e.From)),
			zap.String("to", string(e.To)),
			zap.String("actor_id", e.ActorID.String()),
		)
	case *document.PaymentRecordedEvent:
		fields = append(fields,
			zap.String("kind", string(e.Kind)),
			zap.String("number", e.Number),
			zap.String("amount", e.Amount.StringFixed(2)),
			zap.String("balance_due", e.BalanceDue.StringFixed(2)),
		)
	default:
		h.logger.Debug("domain event", fields...)
		return nil
	}
	h.logger.Info("domain event", fields...)
	return nil
}

var _ shared.EventHandler = (*LoggingHandler)(nil)
