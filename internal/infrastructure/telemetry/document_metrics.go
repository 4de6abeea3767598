package telemetry

import (
	"context"
	"fmt"
	"strings"

	"github.com/forgeledger/backend/internal/domain/document"
	"github.com/forgeledger/backend/internal/domain/partner"
	"github.com/forgeledger/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DocumentMetrics turns domain events into counters. It subscribes to the
// event bus like any other handler.
type DocumentMetrics struct {
	transitions    metric.Int64Counter
	codesAllocated metric.Int64Counter
	payments       metric.Int64Counter
	paymentAmount  metric.Float64Counter
}

// NewDocumentMetrics registers the instruments on meter.
func NewDocumentMetrics(meter metric.Meter) (*DocumentMetrics, error) {
	m := &DocumentMetrics{}
	var err error
	if m.transitions, err = meter.Int64Counter("documents.transitions",
		metric.WithDescription("Accepted document status transitions"),
		metric.WithUnit("{transition}")); err != nil {
		return nil, fmt.Errorf("documents.transitions: %w", err)
	}
	if m.codesAllocated, err = meter.Int64Counter("sequence.codes_allocated",
		metric.WithDescription("Sequential codes issued to parties and documents"),
		metric.WithUnit("{code}")); err != nil {
		return nil, fmt.Errorf("sequence.codes_allocated: %w", err)
	}
	if m.payments, err = meter.Int64Counter("documents.payments",
		metric.WithDescription("Payments recorded against invoices and bills"),
		metric.WithUnit("{payment}")); err != nil {
		return nil, fmt.Errorf("documents.payments: %w", err)
	}
	if m.paymentAmount, err = meter.Float64Counter("documents.payment_amount",
		metric.WithDescription("Sum of recorded payment amounts")); err != nil {
		return nil, fmt.Errorf("documents.payment_amount: %w", err)
	}
	return m, nil
}

// EventTypes implements shared.EventHandler.
func (m *DocumentMetrics) EventTypes() []string {
	return []string{
		document.EventTypeCreated,
		document.EventTypeStatusChanged,
		document.EventTypePaymentRecorded,
		partner.EventTypePartyCreated,
	}
}

// Handle implements shared.EventHandler. Tenant IDs are deliberately not
// used as attributes to keep cardinality bounded.
func (m *DocumentMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *document.CreatedEvent:
		m.codesAllocated.Add(ctx, 1, metric.WithAttributes(attribute.String("category", string(e.Kind.Category()))))
	case *partner.PartyCreatedEvent:
		m.codesAllocated.Add(ctx, 1, metric.WithAttributes(attribute.String("category", strings.ToLower(e.AggregateType()))))
	case *document.StatusChangedEvent:
		m.transitions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", string(e.Kind)),
			attribute.String("from", string(e.From)),
			attribute.String("to", string(e.To)),
		))
	case *document.PaymentRecordedEvent:
		attrs := metric.WithAttributes(attribute.String("kind", string(e.Kind)))
		m.payments.Add(ctx, 1, attrs)
		m.paymentAmount.Add(ctx, e.Amount.InexactFloat64(), attrs)
	}
	return nil
}

var _ shared.EventHandler = (*DocumentMetrics)(nil)
