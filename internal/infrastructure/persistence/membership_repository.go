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

// GormMembershipRepository implements tenant.MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// FindByTenantAndUser runs before a scope exists, so it filters on the
// requested tenant directly.
func (r *GormMembershipRepository) FindByTenantAndUser(ctx context.Context, tenantID, userID uuid.UUID) (*tenant.Membership, error) {
	var model models.MembershipModel
	query := r.db.WithContext(ctx).Scopes(tenantdb.TenantScope(tenantID)).Where("user_id = ?", userID)
	if err := findOne(query, &model, "Membership"); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByUser returns the caller's memberships across every company.
func (r *GormMembershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]tenant.Membership, error) {
	var rows []models.MembershipModel
	err := tenantdb.CrossTenant(r.db.WithContext(ctx)).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]tenant.Membership, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Create adds a member to the scope's tenant.
func (r *GormMembershipRepository) Create(ctx context.Context, scope tenant.Scope, m *tenant.Membership) error {
	err := tenantdb.DB(ctx, r.db, scope).Create(models.MembershipModelFromDomain(m)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewAlreadyExistsError("Member", "user_id", m.UserID.String())
	}
	return err
}

// Ensure GormMembershipRepository implements tenant.MembershipRepository
var _ tenant.MembershipRepository = (*GormMembershipRepository)(nil)
