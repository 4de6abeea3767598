package document

import (
	"time"

	"github.com/google/uuid"
)

// Transition is the immutable audit record of one status change.
type Transition struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	DocumentID uuid.UUID
	Kind       Kind
	From       Status
	To         Status
	ActorID    uuid.UUID
	Reason     string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Shipping holds the carrier details captured when an order ships.
type Shipping struct {
	Method         string
	Carrier        string
	TrackingNumber string
}

// IsZero reports whether no shipping detail was given.
func (s Shipping) IsZero() bool {
	return s.Method == "" && s.Carrier == "" && s.TrackingNumber == ""
}

// TransitionRequest carries the target status and optional side-effect
// fields of a status change.
type TransitionRequest struct {
	To       Status
	Reason   string
	Payment  *PaymentInput
	Shipping *Shipping
}
