package tenant

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository persists tenants. Tenants are global rows, so lookups take IDs
// or slugs rather than a Scope.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Tenant, error)
	// SlugsWithPrefix returns every slug equal to base or starting with base-.
	SlugsWithPrefix(ctx context.Context, base string) ([]string, error)
	// Register writes a registration atomically.
	Register(ctx context.Context, reg *Registration) error
	// SaveWithLock persists status changes using the optimistic version.
	SaveWithLock(ctx context.Context, t *Tenant) error
}

// MembershipRepository persists memberships.
type MembershipRepository interface {
	FindByTenantAndUser(ctx context.Context, tenantID, userID uuid.UUID) (*Membership, error)
	// ListByUser is the one cross-tenant read: a user's own memberships.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Membership, error)
	Create(ctx context.Context, scope Scope, m *Membership) error
}

// Filter keys understood by LocationRepository.List.
const (
	LocationFilterIsActive = "is_active"
	LocationFilterType     = "location_type"
)

// LocationRepository persists tenant locations.
type LocationRepository interface {
	Create(ctx context.Context, scope Scope, l *Location) error
	FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*Location, error)
	List(ctx context.Context, scope Scope, filter shared.Filter) ([]Location, int64, error)
	SaveWithLock(ctx context.Context, scope Scope, l *Location) error
}
