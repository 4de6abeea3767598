package tenant

import (
	"context"
	"strings"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocationService handles tenant locations
type LocationService struct {
	locations tenant.LocationRepository
}

// NewLocationService creates a new LocationService
func NewLocationService(locations tenant.LocationRepository) *LocationService {
	return &LocationService{locations: locations}
}

// Create adds a location to the company
func (s *LocationService) Create(ctx context.Context, scope tenant.Scope, req CreateLocationRequest) (*LocationResponse, error) {
	if err := scope.Require(tenant.ActionWrite); err != nil {
		return nil, err
	}
	l, err := tenant.NewLocation(scope, req.Name, tenant.LocationType(req.LocationType))
	if err != nil {
		return nil, err
	}
	l.Email = strings.ToLower(strings.TrimSpace(req.Email))
	l.Phone = strings.TrimSpace(req.Phone)
	l.Address = req.Address.ToDomain().Trimmed()
	if err := s.locations.Create(ctx, scope, l); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("location created",
		zap.String("location_id", l.ID.String()),
		zap.String("location_type", string(l.Type)),
	)
	resp := ToLocationResponse(l)
	return &resp, nil
}

// GetByID returns one location of the company
func (s *LocationService) GetByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*LocationResponse, error) {
	if err := scope.Require(tenant.ActionRead); err != nil {
		return nil, err
	}
	l, err := s.locations.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	resp := ToLocationResponse(l)
	return &resp, nil
}

// List returns one page of the company's locations
func (s *LocationService) List(ctx context.Context, scope tenant.Scope, filter LocationListFilter) (*shared.Paginated[LocationResponse], error) {
	if err := scope.Require(tenant.ActionRead); err != nil {
		return nil, err
	}
	f := shared.DefaultFilter()
	f.Page, f.PageSize = filter.Page, filter.Limit
	f.OrderBy, f.OrderDir = "name", "asc"
	f.Search = strings.TrimSpace(filter.Search)
	if filter.LocationType != "" {
		f.Filters[tenant.LocationFilterType] = filter.LocationType
	}
	if filter.IsActive != nil {
		f.Filters[tenant.LocationFilterIsActive] = *filter.IsActive
	}
	f = f.Normalize()

	locations, total, err := s.locations.List(ctx, scope, f)
	if err != nil {
		return nil, err
	}
	items := make([]LocationResponse, len(locations))
	for i := range locations {
		items[i] = ToLocationResponse(&locations[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Deactivate soft-deletes a location. The headquarters cannot be removed.
func (s *LocationService) Deactivate(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*LocationResponse, error) {
	if err := scope.Require(tenant.ActionDelete); err != nil {
		return nil, err
	}
	l, err := s.locations.FindByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := l.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.locations.SaveWithLock(ctx, scope, l); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("location deactivated", zap.String("location_id", l.ID.String()))
	resp := ToLocationResponse(l)
	return &resp, nil
}
