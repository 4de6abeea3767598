package tenant

import "github.com/forgeledger/backend/internal/domain/shared"

const (
	AggregateTypeTenant = "Tenant"
	EventTypeRegistered = "TenantRegistered"
)

// RegisteredEvent is raised when a company is created.
type RegisteredEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewRegisteredEvent creates a new RegisteredEvent
func NewRegisteredEvent(t *Tenant) *RegisteredEvent {
	return &RegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRegistered, AggregateTypeTenant, t.ID, t.ID),
		Name:            t.Name,
		Slug:            t.Slug,
	}
}
