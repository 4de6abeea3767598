package persistence

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/partner"
	"github.com/forgeledger/backend/internal/domain/sequence"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/persistence/models"
	tenantdb "github.com/forgeledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db        *gorm.DB
	sequencer *CodeSequencer
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB, sequencer *CodeSequencer) *GormSupplierRepository {
	return &GormSupplierRepository{db: db, sequencer: sequencer}
}

// Create allocates the next SUP code and inserts the supplier
func (r *GormSupplierRepository) Create(ctx context.Context, scope tenant.Scope, s *partner.Supplier) error {
	var code string
	err := r.sequencer.Retry(ctx, sequence.CategorySupplier, func() error {
		return tenantdb.Transaction(ctx, r.db, scope, func(tx *gorm.DB) error {
			taken, err := nameTaken(tx, &models.SupplierModel{}, s.NameKey(), uuid.Nil)
			if err != nil {
				return err
			}
			if taken {
				return shared.NewAlreadyExistsError("Supplier", "name", s.Name)
			}

			code, err = r.sequencer.Next(tx, sequence.CategorySupplier, 0)
			if err != nil {
				return err
			}
			model := models.SupplierModelFromDomain(s)
			model.Code = code
			return tx.Create(model).Error
		})
	})
	if err != nil {
		return err
	}
	return s.AssignCode(code)
}

// FindByID finds a supplier of the scope's tenant
func (r *GormSupplierRepository) FindByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*partner.Supplier, error) {
	var model models.SupplierModel
	if err := findOne(tenantdb.DB(ctx, r.db, scope).Where("id = ?", id), &model, "Supplier"); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByName reports whether another supplier already uses name
func (r *GormSupplierRepository) ExistsByName(ctx context.Context, scope tenant.Scope, name string, excludeID uuid.UUID) (bool, error) {
	return nameTaken(tenantdb.DB(ctx, r.db, scope), &models.SupplierModel{}, partner.NameKey(name), excludeID)
}

// List returns one page of suppliers and the total count
func (r *GormSupplierRepository) List(ctx context.Context, scope tenant.Scope, filter shared.Filter) ([]partner.Supplier, int64, error) {
	filter = filter.Normalize()
	query := tenantdb.DB(ctx, r.db, scope).Model(&models.SupplierModel{})
	if filter.Search != "" {
		p := containsPattern(filter.Search)
		query = query.Where(
			"(LOWER(name) LIKE ?"+likeEscape+" OR LOWER(code) LIKE ?"+likeEscape+" OR LOWER(email) LIKE ?"+likeEscape+" OR LOWER(contact_person) LIKE ?"+likeEscape+")",
			p, p, p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case partner.FilterIsActive:
			query = query.Where("is_active = ?", value)
		case partner.FilterSupplierType:
			query = query.Where("supplier_type = ?", value)
		}
	}

	var rows []models.SupplierModel
	total, err := listPage(query, filter, SupplierSortFields, "code", &rows)
	if err != nil {
		return nil, 0, err
	}
	out := make([]partner.Supplier, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// SaveWithLock saves a supplier with optimistic locking (version check)
func (r *GormSupplierRepository) SaveWithLock(ctx context.Context, scope tenant.Scope, s *partner.Supplier) error {
	model := models.SupplierModelFromDomain(s)
	model.Version = s.Version + 1
	err := saveWithLock(tenantdb.DB(ctx, r.db, scope), model, s.ID, s.Version)
	if isDuplicate(err) {
		return shared.NewAlreadyExistsError("Supplier", "name", s.Name)
	}
	if err != nil {
		return err
	}
	s.Version = model.Version
	return nil
}

// Ensure GormSupplierRepository implements partner.SupplierRepository
var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
