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

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db        *gorm.DB
	sequencer *CodeSequencer
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB, sequencer *CodeSequencer) *GormCustomerRepository {
	return &GormCustomerRepository{db: db, sequencer: sequencer}
}

// Create allocates the next CUST code and inserts the customer in the same
// transaction. The name check runs inside that transaction too, so a retry
// caused by a concurrent insert of the same name reports the duplicate name.
func (r *GormCustomerRepository) Create(ctx context.Context, scope tenant.Scope, c *partner.Customer) error {
	var code string
	err := r.sequencer.Retry(ctx, sequence.CategoryCustomer, func() error {
		return tenantdb.Transaction(ctx, r.db, scope, func(tx *gorm.DB) error {
			taken, err := nameTaken(tx, &models.CustomerModel{}, c.NameKey(), uuid.Nil)
			if err != nil {
				return err
			}
			if taken {
				return shared.NewAlreadyExistsError("Customer", "name", c.Name)
			}

			code, err = r.sequencer.Next(tx, sequence.CategoryCustomer, 0)
			if err != nil {
				return err
			}
			model := models.CustomerModelFromDomain(c)
			model.Code = code
			return tx.Create(model).Error
		})
	})
	if err != nil {
		return err
	}
	return c.AssignCode(code)
}

// FindByID finds a customer of the scope's tenant
func (r *GormCustomerRepository) FindByID(ctx context.Context, scope tenant.Scope, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := findOne(tenantdb.DB(ctx, r.db, scope).Where("id = ?", id), &model, "Customer"); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByName reports whether another customer already uses name
// (case-insensitive, whitespace-collapsed).
func (r *GormCustomerRepository) ExistsByName(ctx context.Context, scope tenant.Scope, name string, excludeID uuid.UUID) (bool, error) {
	return nameTaken(tenantdb.DB(ctx, r.db, scope), &models.CustomerModel{}, partner.NameKey(name), excludeID)
}

// List returns one page of customers and the total count
func (r *GormCustomerRepository) List(ctx context.Context, scope tenant.Scope, filter shared.Filter) ([]partner.Customer, int64, error) {
	filter = filter.Normalize()
	query := tenantdb.DB(ctx, r.db, scope).Model(&models.CustomerModel{})
	if filter.Search != "" {
		p := containsPattern(filter.Search)
		query = query.Where(
			"(LOWER(name) LIKE ?"+likeEscape+" OR LOWER(code) LIKE ?"+likeEscape+" OR LOWER(email) LIKE ?"+likeEscape+" OR LOWER(company_name) LIKE ?"+likeEscape+")",
			p, p, p, p)
	}
	for key, value := range filter.Filters {
		switch key {
		case partner.FilterIsActive:
			query = query.Where("is_active = ?", value)
		case partner.FilterCustomerType:
			query = query.Where("customer_type = ?", value)
		case partner.FilterCategory:
			query = query.Where("category = ?", value)
		}
	}

	var rows []models.CustomerModel
	total, err := listPage(query, filter, CustomerSortFields, "code", &rows)
	if err != nil {
		return nil, 0, err
	}
	out := make([]partner.Customer, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// SaveWithLock saves a customer with optimistic locking (version check). A
// rename onto an existing name surfaces as AlreadyExists.
func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, scope tenant.Scope, c *partner.Customer) error {
	model := models.CustomerModelFromDomain(c)
	model.Version = c.Version + 1
	err := saveWithLock(tenantdb.DB(ctx, r.db, scope), model, c.ID, c.Version)
	if isDuplicate(err) {
		return shared.NewAlreadyExistsError("Customer", "name", c.Name)
	}
	if err != nil {
		return err
	}
	c.Version = model.Version
	return nil
}

// Ensure GormCustomerRepository implements partner.CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
