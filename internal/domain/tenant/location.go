package tenant

import (
	"strings"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LocationType classifies a tenant location.
type LocationType string

const (
	LocationHeadquarters LocationType = "HEADQUARTERS"
	LocationWarehouse    LocationType = "WAREHOUSE"
	LocationFactory      LocationType = "FACTORY"
	LocationBranch       LocationType = "BRANCH"
	LocationOther        LocationType = "OTHER"
)

// IsValid checks if the location type is a valid value
func (t LocationType) IsValid() bool {
	switch t {
	case LocationHeadquarters, LocationWarehouse, LocationFactory, LocationBranch, LocationOther:
		return true
	}
	return false
}

// DefaultLocationName is the name of the location created with every company.
const DefaultLocationName = "Head Office"

// Location is a physical site of a tenant that documents may reference.
type Location struct {
	shared.TenantAggregateRoot
	Name           string
	Type           LocationType
	Email          string
	Phone          string
	Address        shared.Address
	IsDefault      bool
	IsHeadquarters bool
	IsActive       bool
}

// NewLocation creates an active location.
func NewLocation(scope Scope, name string, locType LocationType) (*Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewFieldError("name", "Location name cannot be empty", name)
	}
	if locType == "" {
		locType = LocationOther
	}
	if !locType.IsValid() {
		return nil, shared.NewFieldError("location_type", "Invalid location type", string(locType))
	}
	return &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(scope.TenantID(), scope.ActorID()),
		Name:                name,
		Type:                locType,
		IsActive:            true,
	}, nil
}

// newHeadOffice builds the default location of a freshly registered tenant.
func newHeadOffice(tenantID, ownerID uuid.UUID) *Location {
	return &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, ownerID),
		Name:                DefaultLocationName,
		Type:                LocationHeadquarters,
		IsDefault:           true,
		IsHeadquarters:      true,
		IsActive:            true,
	}
}

// Deactivate soft-deletes the location. The headquarters cannot be removed.
func (l *Location) Deactivate() error {
	if l.IsHeadquarters {
		return shared.NewConflictError("The headquarters location cannot be deactivated")
	}
	if !l.IsActive {
		return shared.NewConflictError("Location is already inactive")
	}
	l.IsActive = false
	l.Touch()
	return nil
}
