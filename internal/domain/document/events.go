package document

import (
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeDocument = "Document"

	EventTypeCreated         = "DocumentCreated"
	EventTypeStatusChanged   = "DocumentStatusChanged"
	EventTypePaymentRecorded = "PaymentRecorded"
)

// CreatedEvent is raised when a document receives its number.
type CreatedEvent struct {
	shared.BaseDomainEvent
	Kind        Kind            `json:"kind"`
	Number      string          `json:"number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewCreatedEvent creates a new CreatedEvent
func NewCreatedEvent(d *Document) *CreatedEvent {
	return &CreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCreated, AggregateTypeDocument, d.ID, d.TenantID),
		Kind:            d.Kind,
		Number:          d.Number,
		TotalAmount:     d.TotalAmount,
	}
}

// StatusChangedEvent is raised for every accepted transition.
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	Kind    Kind      `json:"kind"`
	Number  string    `json:"number"`
	From    Status    `json:"from"`
	To      Status    `json:"to"`
	ActorID uuid.UUID `json:"actor_id"`
}

// NewStatusChangedEvent creates a new StatusChangedEvent
func NewStatusChangedEvent(d *Document, from, to Status, actor uuid.UUID) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStatusChanged, AggregateTypeDocument, d.ID, d.TenantID),
		Kind:            d.Kind,
		Number:          d.Number,
		From:            from,
		To:              to,
		ActorID:         actor,
	}
}

// PaymentRecordedEvent is raised for every accepted payment.
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	Kind       Kind            `json:"kind"`
	Number     string          `json:"number"`
	PaymentID  uuid.UUID       `json:"payment_id"`
	Amount     decimal.Decimal `json:"amount"`
	BalanceDue decimal.Decimal `json:"balance_due"`
}

// NewPaymentRecordedEvent creates a new PaymentRecordedEvent
func NewPaymentRecordedEvent(d *Document, p Payment) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRecorded, AggregateTypeDocument, d.ID, d.TenantID),
		Kind:            d.Kind,
		Number:          d.Number,
		PaymentID:       p.ID,
		Amount:          p.Amount,
		BalanceDue:      d.BalanceDue,
	}
}
