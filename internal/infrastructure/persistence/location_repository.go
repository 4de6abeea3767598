package persistence

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/persistence/models"
	tenantdb "github.com/forgeledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLocationRepository implements tenant.LocationRepository using GORM
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// Create inserts a location
func (r *GormLocationRepository) Create(ctx context.Context, scope tenant.Scope, l *tenant.Location) error {
	return tenantdb.DB(ctx, r.db, scope).Create(models.LocationModelFromDomain(l)).Error
}

// FindByID finds a location of the scope's tenant
func (r *GormLocationRepository) FindByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*tenant.Location, error) {
	var model models.LocationModel
	if err := findOne(tenantdb.DB(ctx, r.db, scope).Where("id = ?", id), &model, "Location"); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns one page of locations and the total count
func (r *GormLocationRepository) List(ctx context.Context, scope tenant.Scope, filter shared.Filter) ([]tenant.Location, int64, error) {
	filter = filter.Normalize()
	query := tenantdb.DB(ctx, r.db, scope).Model(&models.LocationModel{})
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?"+likeEscape, containsPattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case tenant.LocationFilterIsActive:
			query = query.Where("is_active = ?", value)
		case tenant.LocationFilterType:
			query = query.Where("location_type = ?", value)
		}
	}

	var rows []models.LocationModel
	total, err := listPage(query, filter, LocationSortFields, "name", &rows)
	if err != nil {
		return nil, 0, err
	}
	out := make([]tenant.Location, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// SaveWithLock saves a location with optimistic locking (version check)
func (r *GormLocationRepository) SaveWithLock(ctx context.Context, scope tenant.Scope, l *tenant.Location) error {
	model := models.LocationModelFromDomain(l)
	model.Version = l.Version + 1
	if err := saveWithLock(tenantdb.DB(ctx, r.db, scope), model, l.ID, l.Version); err != nil {
		return err
	}
	l.Version = model.Version
	return nil
}

// Ensure GormLocationRepository implements tenant.LocationRepository
var _ tenant.LocationRepository = (*GormLocationRepository)(nil)
