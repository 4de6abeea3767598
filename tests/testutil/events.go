package testutil

import (
	"context"
	"sync"

	"github.com/forgeledger/backend/internal/domain/shared"
)

// EventRecorder is a shared.EventHandler that keeps every event it is
// handed. Without types it subscribes to everything.
type EventRecorder struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
}

// NewEventRecorder subscribes to eventTypes, or to all events when none
// are given.
func NewEventRecorder(eventTypes ...string) *EventRecorder {
	return &EventRecorder{types: eventTypes}
}

// EventTypes implements shared.EventHandler.
func (r *EventRecorder) EventTypes() []string { return r.types }

// Handle implements shared.EventHandler.
func (r *EventRecorder) Handle(_ context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

// Events returns a copy of everything recorded so far.
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shared.DomainEvent(nil), r.events...)
}

// Of returns the recorded events of one type, in publish order.
func (r *EventRecorder) Of(eventType string) []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []shared.DomainEvent
	for _, ev := range r.events {
		if ev.EventType() == eventType {
			out = append(out, ev)
		}
	}
	return out
}

// Count returns how many events of eventType were recorded.
func (r *EventRecorder) Count(eventType string) int {
	return len(r.Of(eventType))
}

// Fail makes subsequent Handle calls return err. The event is still kept.
func (r *EventRecorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Reset forgets recorded events and any configured failure.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.err = nil
}

var _ shared.EventHandler = (*EventRecorder)(nil)
