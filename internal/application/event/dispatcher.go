// Package event hands the events recorded by aggregates to the bus once the
// write that produced them has committed.
package event

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Source is an aggregate with pending domain events.
type Source interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// Dispatcher publishes pending events. A nil publisher only clears them.
type Dispatcher struct {
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(publisher shared.EventPublisher, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{publisher: publisher, logger: logger}
}

// Dispatch publishes and clears the pending events of every source. The
// write has already committed, so a publish failure is logged and not
// returned.
func (d *Dispatcher) Dispatch(ctx context.Context, sources ...Source) {
	var events []shared.DomainEvent
	for _, s := range sources {
		if s == nil {
			continue
		}
		events = append(events, s.GetDomainEvents()...)
		s.ClearDomainEvents()
	}
	if len(events) == 0 || d == nil || d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, events...); err != nil {
		d.logger.Warn("failed to publish domain events",
			zap.Int("count", len(events)),
			zap.String("first_event_type", events[0].EventType()),
			zap.Error(err),
		)
	}
}
