package catalog

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
)

// FilterIsActive restricts product listings by the active flag.
const FilterIsActive = "is_active"

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create inserts the product. A taken code or name yields ALREADY_EXISTS.
	Create(ctx context.Context, scope tenant.Scope, p *Product) error
	FindByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*Product, error)
	// FindByIDs returns the subset of ids that exist in the scope.
	FindByIDs(ctx context.Context, scope tenant.Scope, ids []uuid.UUID) ([]Product, error)
	ExistsByName(ctx context.Context, scope tenant.Scope, name string, excludeID uuid.UUID) (bool, error)
	List(ctx context.Context, scope tenant.Scope, filter shared.Filter) ([]Product, int64, error)
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, scope tenant.Scope, p *Product) error
}
