package persistence

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/catalog"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/persistence/models"
	tenantdb "github.com/forgeledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Create inserts a product. Code and name are checked first so the error
// names the offending field; the unique indexes catch what slips past.
func (r *GormProductRepository) Create(ctx context.Context, scope tenant.Scope, p *catalog.Product) error {
	return tenantdb.Transaction(ctx, r.db, scope, func(tx *gorm.DB) error {
		if err := r.checkUnique(tx, p, uuid.Nil); err != nil {
			return err
		}
		err := tx.Create(models.ProductModelFromDomain(p)).Error
		if isDuplicate(err) {
			if dupErr := r.checkUnique(tx, p, uuid.Nil); dupErr != nil {
				return dupErr
			}
			return shared.NewAlreadyExistsError("Product", "code", p.Code)
		}
		return err
	})
}

func (r *GormProductRepository) checkUnique(tx *gorm.DB, p *catalog.Product, excludeID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.ProductModel{}).Where("code = ?", p.Code).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.NewAlreadyExistsError("Product", "code", p.Code)
	}
	taken, err := nameTaken(tx, &models.ProductModel{}, p.NameKey(), excludeID)
	if err != nil {
		return err
	}
	if taken {
		return shared.NewAlreadyExistsError("Product", "name", p.Name)
	}
	return nil
}

// FindByID finds a product of the scope's tenant
func (r *GormProductRepository) FindByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := findOne(tenantdb.DB(ctx, r.db, scope).Where("id = ?", id), &model, "Product"); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the products among ids that belong to the scope's
// tenant. Ids of other tenants are silently absent from the result.
func (r *GormProductRepository) FindByIDs(ctx context.Context, scope tenant.Scope, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := tenantdb.DB(ctx, r.db, scope).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Product, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// ExistsByName reports whether another product already uses name
func (r *GormProductRepository) ExistsByName(ctx context.Context, scope tenant.Scope, name string, excludeID uuid.UUID) (bool, error) {
	return nameTaken(tenantdb.DB(ctx, r.db, scope), &models.ProductModel{}, catalog.NameKey(name), excludeID)
}

// List returns one page of products and the total count
func (r *GormProductRepository) List(ctx context.Context, scope tenant.Scope, filter shared.Filter) ([]catalog.Product, int64, error) {
	filter = filter.Normalize()
	query := tenantdb.DB(ctx, r.db, scope).Model(&models.ProductModel{})
	if filter.Search != "" {
		p := containsPattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ?"+likeEscape+" OR LOWER(code) LIKE ?"+likeEscape+")", p, p)
	}
	if v, ok := filter.Filters[catalog.FilterIsActive]; ok {
		query = query.Where("is_active = ?", v)
	}

	var rows []models.ProductModel
	total, err := listPage(query, filter, ProductSortFields, "code", &rows)
	if err != nil {
		return nil, 0, err
	}
	out := make([]catalog.Product, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// SaveWithLock saves a product with optimistic locking (version check)
func (r *GormProductRepository) SaveWithLock(ctx context.Context, scope tenant.Scope, p *catalog.Product) error {
	model := models.ProductModelFromDomain(p)
	model.Version = p.Version + 1
	err := saveWithLock(tenantdb.DB(ctx, r.db, scope), model, p.ID, p.Version)
	if isDuplicate(err) {
		return shared.NewAlreadyExistsError("Product", "name", p.Name)
	}
	if err != nil {
		return err
	}
	p.Version = model.Version
	return nil
}

// Ensure GormProductRepository implements catalog.ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
