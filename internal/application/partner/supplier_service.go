package partner

import (
	"context"
	"strings"

	appevent "github.com/forgeledger/backend/internal/application/event"
	"github.com/forgeledger/backend/internal/domain/partner"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/forgeledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	events       *appevent.Dispatcher
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, events *appevent.Dispatcher) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo, events: events}
}

// Create validates the profile, allocates the next SUP code and stores the
// supplier.
func (s *SupplierService) Create(ctx context.Context, scope tenant.Scope, req SupplierRequest) (_ *SupplierResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "supplier", "create")
	defer func() { telemetry.EndSpan(span, err) }()

	if err := scope.Require(tenant.ActionWrite); err != nil {
		return nil, err
	}
	supplier, err := partner.NewSupplier(scope, req.profile())
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Create(ctx, scope, supplier); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("supplier created",
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("code", supplier.Code),
	)
	s.events.Dispatch(ctx, supplier)

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*SupplierResponse, error) {
	if err := scope.Require(tenant.ActionRead); err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List retrieves one page of suppliers
func (s *SupplierService) List(ctx context.Context, scope tenant.Scope, filter SupplierListFilter) (*shared.Paginated[SupplierResponse], error) {
	if err := scope.Require(tenant.ActionRead); err != nil {
		return nil, err
	}
	f := listFilter(strings.TrimSpace(filter.Search), filter.Page, filter.Limit, filter.OrderBy, filter.OrderDir)
	if filter.SupplierType != "" {
		f.Filters[partner.FilterSupplierType] = filter.SupplierType
	}
	if filter.IsActive != nil {
		f.Filters[partner.FilterIsActive] = *filter.IsActive
	}
	f = f.Normalize()

	suppliers, total, err := s.supplierRepo.List(ctx, scope, f)
	if err != nil {
		return nil, err
	}
	items := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		items[i] = ToSupplierResponse(&suppliers[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update replaces the profile of an active supplier. The code never changes.
func (s *SupplierService) Update(ctx context.Context, scope tenant.Scope, id uuid.UUID, req SupplierRequest) (*SupplierResponse, error) {
	if err := scope.Require(tenant.ActionWrite); err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	profile := req.profile()
	if partner.NameKey(profile.Name) != supplier.NameKey() {
		taken, err := s.supplierRepo.ExistsByName(ctx, scope, profile.Name, supplier.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewAlreadyExistsError("Supplier", "name", strings.TrimSpace(profile.Name))
		}
	}
	if err := supplier.Update(profile); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.SaveWithLock(ctx, scope, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Deactivate soft-deletes a supplier
func (s *SupplierService) Deactivate(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*SupplierResponse, error) {
	return s.setActive(ctx, scope, id, false)
}

// Activate restores a soft-deleted supplier
func (s *SupplierService) Activate(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*SupplierResponse, error) {
	return s.setActive(ctx, scope, id, true)
}

func (s *SupplierService) setActive(ctx context.Context, scope tenant.Scope, id uuid.UUID, active bool) (*SupplierResponse, error) {
	if err := scope.Require(tenant.ActionDelete); err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if active {
		err = supplier.Activate()
	} else {
		err = supplier.Deactivate()
	}
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.SaveWithLock(ctx, scope, supplier); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("supplier status changed",
		zap.String("supplier_id", supplier.ID.String()),
		zap.Bool("is_active", active),
	)
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}
