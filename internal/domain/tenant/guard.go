package tenant

import (
	"context"
	"errors"
	"strings"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Guard resolves a caller and a tenant reference into a Scope. It has no side
// effects.
type Guard struct {
	tenants     Repository
	memberships MembershipRepository
}

// NewGuard creates a new Guard
func NewGuard(tenants Repository, memberships MembershipRepository) *Guard {
	return &Guard{tenants: tenants, memberships: memberships}
}

// Resolve authorizes actorID against tenantRef, which is either the tenant UUID
// or its slug. A missing or inactive tenant is NotFound; a missing or inactive
// membership is Forbidden.
func (g *Guard) Resolve(ctx context.Context, actorID uuid.UUID, tenantRef string) (Scope, error) {
	if actorID == uuid.Nil {
		return Scope{}, shared.ErrUnauthorized
	}

	t, err := g.lookup(ctx, tenantRef)
	if err != nil {
		return Scope{}, err
	}
	if !t.IsActive() {
		return Scope{}, shared.NewNotFoundError("Company")
	}

	m, err := g.memberships.FindByTenantAndUser(ctx, t.ID, actorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Scope{}, shared.NewForbiddenError("You are not a member of this company")
		}
		return Scope{}, err
	}
	if !m.IsActive {
		return Scope{}, shared.NewForbiddenError("Your membership in this company is inactive")
	}

	return Scope{tenantID: t.ID, actorID: actorID, role: m.Role}, nil
}

func (g *Guard) lookup(ctx context.Context, ref string) (*Tenant, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, shared.NewNotFoundError("Company")
	}

	var (
		t   *Tenant
		err error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		t, err = g.tenants.FindByID(ctx, id)
	} else {
		t, err = g.tenants.FindBySlug(ctx, strings.ToLower(ref))
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Company")
		}
		return nil, err
	}
	return t, nil
}
