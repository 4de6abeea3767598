// Package event delivers domain events raised by committed writes to
// in-process subscribers such as the audit logger and the metrics handler.
package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// InMemoryEventBus dispatches events synchronously to registered handlers.
// Events are published only after the owning transaction has committed, so
// a failing handler is logged and never surfaces to the caller.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	stopped  atomic.Bool
	failures atomic.Int64
}

// NewInMemoryEventBus creates a bus that logs handler failures to logger.
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

// Publish hands each event to its handlers in order. After Stop it drops
// events.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.stopped.Load() {
		if len(events) > 0 {
			b.logger.Warn("event bus stopped, dropping events", zap.Int("count", len(events)))
		}
		return nil
	}
	for _, ev := range events {
		for _, h := range b.registry.HandlersFor(ev.EventType()) {
			if err := b.dispatch(ctx, h, ev); err != nil {
				b.failures.Add(1)
				b.logFor(ctx).Error("event handler failed",
					zap.String("event_type", ev.EventType()),
					zap.String("event_id", ev.EventID().String()),
					zap.String("aggregate_id", ev.AggregateID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers handler. Without explicit types the handler's own
// EventTypes are used; if those are empty too it receives everything.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes handler from every event type.
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Stop makes further Publish calls no-ops.
func (b *InMemoryEventBus) Stop() {
	if b.stopped.CompareAndSwap(false, true) {
		b.logger.Info("event bus stopped", zap.Int64("handler_failures", b.failures.Load()))
	}
}

// Failures returns how many handler invocations have failed or panicked.
func (b *InMemoryEventBus) Failures() int64 {
	return b.failures.Load()
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, ev)
}

// logFor prefers the request logger so failures carry the request ID.
func (b *InMemoryEventBus) logFor(ctx context.Context) *zap.Logger {
	if logger.GetRequestID(ctx) != "" {
		return logger.FromContext(ctx)
	}
	return b.logger
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
