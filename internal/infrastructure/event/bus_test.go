package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/forgeledger/backend/internal/domain/document"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", uuid.New(), uuid.New())}
}

type recordingHandler struct {
	mu      sync.Mutex
	types   []string
	handled []shared.DomainEvent
	err     error
	panics  bool
}

func (h *recordingHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, ev)
	if h.panics {
		panic("boom")
	}
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	created := &recordingHandler{types: []string{document.EventTypeCreated}}
	all := &recordingHandler{}
	bus.Subscribe(created)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent(document.EventTypeCreated),
		newTestEvent(document.EventTypeStatusChanged),
	))

	assert.Equal(t, 1, created.count())
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"A"}}
	bus.Subscribe(h, "B")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A"), newTestEvent("B")))
	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_DuplicateSubscriptionDeliversOnce(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{}
	bus.Subscribe(h, "A")
	bus.Subscribe(h, "A")
	bus.Subscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A")))
	assert.Equal(t, 1, h.count())
	assert.Equal(t, 1, bus.registry.Len())
}

func TestInMemoryEventBus_HandlerFailuresAreIsolated(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := &recordingHandler{err: errors.New("sink unavailable")}
	panicking := &recordingHandler{panics: true}
	healthy := &recordingHandler{}
	bus.Subscribe(failing, "A")
	bus.Subscribe(panicking, "A")
	bus.Subscribe(healthy, "A")

	err := bus.Publish(context.Background(), newTestEvent("A"))

	require.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
	assert.Equal(t, int64(2), bus.Failures())
	assert.Equal(t, 2, logs.FilterMessage("event handler failed").Len())
}

func TestInMemoryEventBus_FailureUsesRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(&recordingHandler{err: errors.New("x")}, "A")

	ctx, _ := logger.WithRequestID(context.Background(), zap.New(core), "req-42")
	require.NoError(t, bus.Publish(ctx, newTestEvent("A")))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{}
	bus.Subscribe(h, "A", "B")
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A"), newTestEvent("B")))
	assert.Zero(t, h.count())
	assert.Zero(t, bus.registry.Len())
}

func TestInMemoryEventBus_StopDropsEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{}
	bus.Subscribe(h)
	bus.Stop()
	bus.Stop()

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A")))
	assert.Zero(t, h.count())
}

func TestInMemoryEventBus_ConcurrentPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{}
	bus.Subscribe(h)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(context.Background(), newTestEvent("A"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, h.count())
}

func TestLoggingHandler(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewLoggingHandler(zap.New(core))

	inv := &document.Document{Kind: document.KindInvoice, Number: "INV-2024-0007", BalanceDue: decimal.NewFromInt(40)}
	inv.ID, inv.TenantID = uuid.New(), uuid.New()
	actor := uuid.New()

	ctx, _ := logger.WithRequestID(context.Background(), zap.NewNop(), "req-1")
	require.NoError(t, h.Handle(ctx, document.NewStatusChangedEvent(inv, document.StatusDraft, document.StatusSent, actor)))
	require.NoError(t, h.Handle(ctx, document.NewPaymentRecordedEvent(inv, document.Payment{ID: uuid.New(), Amount: decimal.NewFromInt(60)})))
	require.NoError(t, h.Handle(ctx, newTestEvent("Other")))

	entries := logs.All()
	require.Len(t, entries, 3)

	transition := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "DRAFT", transition["from"])
	assert.Equal(t, "SENT", transition["to"])
	assert.Equal(t, actor.String(), transition["actor_id"])
	assert.Equal(t, "req-1", transition["request_id"])
	assert.Equal(t, inv.TenantID.String(), transition["tenant_id"])

	payment := entries[1].ContextMap()
	assert.Equal(t, "60.00", payment["amount"])
	assert.Equal(t, "40.00", payment["balance_due"])

	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
	assert.Nil(t, h.EventTypes())
}
