package tenant

import (
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Registration is everything written when a company is created: the tenant,
// the creator's OWNER membership and the default location.
type Registration struct {
	Tenant     *Tenant
	Owner      *Membership
	HeadOffice *Location
}

// NewRegistration assembles a registration for ownerID.
func NewRegistration(name, slug string, ownerID uuid.UUID) (*Registration, error) {
	if ownerID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	t, err := NewTenant(name, slug)
	if err != nil {
		return nil, err
	}
	owner, err := NewMembership(t.ID, ownerID, RoleOwner)
	if err != nil {
		return nil, err
	}
	return &Registration{
		Tenant:     t,
		Owner:      owner,
		HeadOffice: newHeadOffice(t.ID, ownerID),
	}, nil
}
