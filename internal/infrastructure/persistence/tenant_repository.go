package persistence

import (
	"context"
	"errors"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/persistence/models"
	tenantdb "github.com/forgeledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantRepository implements tenant.Repository using GORM. The tenants
// table is global; the rows written alongside a registration are bound to the
// new tenant.
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	var model models.TenantModel
	if err := findOne(r.db.WithContext(ctx).Where("id = ?", id), &model, "Company"); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a tenant by its slug
func (r *GormTenantRepository) FindBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	var model models.TenantModel
	if err := findOne(r.db.WithContext(ctx).Where("slug = ?", slug), &model, "Company"); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the tenants with the given ids in no particular order.
func (r *GormTenantRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]tenant.Tenant, error) {
	if len(ids) == 0 {
		return []tenant.Tenant{}, nil
	}
	var rows []models.TenantModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]tenant.Tenant, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// SlugsWithPrefix returns base itself and every base-N slug already taken.
func (r *GormTenantRepository) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	var slugs []string
	err := r.db.WithContext(ctx).
		Model(&models.TenantModel{}).
		Where("slug = ? OR slug LIKE ?"+likeEscape, base, likeEscaper.Replace(base)+"-%").
		Pluck("slug", &slugs).Error
	return slugs, err
}

// Register inserts the tenant, its owner membership and head office in one
// transaction.
func (r *GormTenantRepository) Register(ctx context.Context, reg *tenant.Registration) error {
	scope := tenant.TrustedScope(reg.Tenant.ID, reg.Owner.UserID)
	err := tenantdb.Transaction(ctx, r.db, scope, func(tx *gorm.DB) error {
		if err := tx.Create(models.TenantModelFromDomain(reg.Tenant)).Error; err != nil {
			return err
		}
		if err := tx.Create(models.MembershipModelFromDomain(reg.Owner)).Error; err != nil {
			return err
		}
		return tx.Create(models.LocationModelFromDomain(reg.HeadOffice)).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewAlreadyExistsError("Company", "slug", reg.Tenant.Slug)
	}
	return err
}

// SaveWithLock saves a tenant with optimistic locking (version check)
func (r *GormTenantRepository) SaveWithLock(ctx context.Context, t *tenant.Tenant) error {
	model := models.TenantModelFromDomain(t)
	model.Version = t.Version + 1
	if err := saveWithLock(r.db.WithContext(ctx), model, t.ID, t.Version); err != nil {
		return err
	}
	t.Version = model.Version
	return nil
}

// Ensure GormTenantRepository implements tenant.Repository
var _ tenant.Repository = (*GormTenantRepository)(nil)
