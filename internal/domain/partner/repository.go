package partner

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
)

// Filter keys understood by the party repositories.
const (
	FilterIsActive     = "is_active"
	FilterCustomerType = "customer_type"
	FilterCategory     = "category"
	FilterSupplierType = "supplier_type"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// Create allocates the next CUST code and inserts the customer in one
	// transaction. A duplicate name yields ALREADY_EXISTS.
	Create(ctx context.Context, scope tenant.Scope, c *Customer) error
	FindByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*Customer, error)
	// ExistsByName matches case-insensitively, ignoring excludeID.
	ExistsByName(ctx context.Context, scope tenant.Scope, name string, excludeID uuid.UUID) (bool, error)
	List(ctx context.Context, scope tenant.Scope, filter shared.Filter) ([]Customer, int64, error)
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, scope tenant.Scope, c *Customer) error
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	Create(ctx context.Context, scope tenant.Scope, s *Supplier) error
	FindByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*Supplier, error)
	ExistsByName(ctx context.Context, scope tenant.Scope, name string, excludeID uuid.UUID) (bool, error)
	List(ctx context.Context, scope tenant.Scope, filter shared.Filter) ([]Supplier, int64, error)
	SaveWithLock(ctx context.Context, scope tenant.Scope, s *Supplier) error
}
