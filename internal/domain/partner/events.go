package partner

import (
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeCustomer = "Customer"
	AggregateTypeSupplier = "Supplier"

	EventTypePartyCreated = "PartyCreated"
)

// PartyCreatedEvent is raised once a party received its code.
type PartyCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewPartyCreatedEvent creates a new PartyCreatedEvent
func NewPartyCreatedEvent(aggType string, id, tenantID uuid.UUID, code, name string) *PartyCreatedEvent {
	return &PartyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartyCreated, aggType, id, tenantID),
		Code:            code,
		Name:            name,
	}
}
