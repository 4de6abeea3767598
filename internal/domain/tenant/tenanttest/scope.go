// Package tenanttest builds scopes with arbitrary roles for tests of code
// that consumes tenant.Scope.
package tenanttest

import (
	"context"
	"errors"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
)

// Scope returns a scope for a fresh tenant and actor holding role.
func Scope(role tenant.Role) tenant.Scope {
	return ScopeFor(uuid.New(), uuid.New(), role)
}

// ScopeFor returns a scope for tenantID and actorID holding role. It goes
// through the real Guard so the result is indistinguishable from a
// request-resolved scope.
func ScopeFor(tenantID, actorID uuid.UUID, role tenant.Role) tenant.Scope {
	t, err := tenant.NewTenant("Test Company", "test-company")
	if err != nil {
		panic(err)
	}
	t.ID = tenantID
	m, err := tenant.NewMembership(tenantID, actorID, role)
	if err != nil {
		panic(err)
	}
	g := tenant.NewGuard(fixedTenants{t}, fixedMembership{m})
	s, err := g.Resolve(context.Background(), actorID, tenantID.String())
	if err != nil {
		panic(err)
	}
	return s
}

type fixedTenants struct{ t *tenant.Tenant }

func (f fixedTenants) FindByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	if id != f.t.ID {
		return nil, shared.ErrNotFound
	}
	return f.t, nil
}

func (f fixedTenants) FindBySlug(context.Context, string) (*tenant.Tenant, error) {
	return nil, shared.ErrNotFound
}

func (f fixedTenants) FindByIDs(context.Context, []uuid.UUID) ([]tenant.Tenant, error) {
	return []tenant.Tenant{*f.t}, nil
}

func (f fixedTenants) SlugsWithPrefix(context.Context, string) ([]string, error) { return nil, nil }

func (f fixedTenants) Register(context.Context, *tenant.Registration) error {
	return errors.New("tenanttest: read-only")
}

func (f fixedTenants) SaveWithLock(context.Context, *tenant.Tenant) error {
	return errors.New("tenanttest: read-only")
}

type fixedMembership struct{ m *tenant.Membership }

func (f fixedMembership) FindByTenantAndUser(_ context.Context, tenantID, userID uuid.UUID) (*tenant.Membership, error) {
	if tenantID != f.m.TenantID || userID != f.m.UserID {
		return nil, shared.ErrNotFound
	}
	return f.m, nil
}

func (f fixedMembership) ListByUser(context.Context, uuid.UUID) ([]tenant.Membership, error) {
	return []tenant.Membership{*f.m}, nil
}

func (f fixedMembership) Create(context.Context, tenant.Scope, *tenant.Membership) error {
	return errors.New("tenanttest: read-only")
}
