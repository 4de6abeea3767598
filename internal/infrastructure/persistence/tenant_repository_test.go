package persistence

import (
	"context"
	"testing"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func registerTestTenant(t *testing.T, db *gorm.DB, name, slug string) (*tenant.Registration, tenant.Scope) {
	t.Helper()
	reg, err := tenant.NewRegistration(name, slug, uuid.New())
	require.NoError(t, err)
	require.NoError(t, NewGormTenantRepository(db).Register(context.Background(), reg))
	return reg, tenant.TrustedScope(reg.Tenant.ID, reg.Owner.UserID)
}

func TestGormTenantRepository_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("writes tenant, owner membership and head office together", func(t *testing.T) {
		db := newTestDB(t)
		reg, scope := registerTestTenant(t, db, "Acme Textiles", "acme-textiles")

		found, err := NewGormTenantRepository(db).FindBySlug(ctx, "acme-textiles")
		require.NoError(t, err)
		assert.Equal(t, reg.Tenant.ID, found.ID)
		assert.Equal(t, tenant.DefaultCurrency, found.Currency)

		m, err := NewGormMembershipRepository(db).FindByTenantAndUser(ctx, reg.Tenant.ID, reg.Owner.UserID)
		require.NoError(t, err)
		assert.Equal(t, tenant.RoleOwner, m.Role)

		locations, total, err := NewGormLocationRepository(db).List(ctx, scope, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, tenant.DefaultLocationName, locations[0].Name)
		assert.True(t, locations[0].IsHeadquarters)
	})

	t.Run("duplicate slug is rejected and nothing is written", func(t *testing.T) {
		db := newTestDB(t)
		registerTestTenant(t, db, "Acme", "acme")

		reg, err := tenant.NewRegistration("Acme Again", "acme", uuid.New())
		require.NoError(t, err)
		err = NewGormTenantRepository(db).Register(ctx, reg)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		memberships, err := NewGormMembershipRepository(db).ListByUser(ctx, reg.Owner.UserID)
		require.NoError(t, err)
		assert.Empty(t, memberships)
	})
}

func TestGormTenantRepository_SlugsWithPrefix(t *testing.T) {
	db := newTestDB(t)
	registerTestTenant(t, db, "Acme", "acme")
	registerTestTenant(t, db, "Acme 2", "acme-2")
	registerTestTenant(t, db, "Acme Corp", "acmecorp")

	slugs, err := NewGormTenantRepository(db).SlugsWithPrefix(context.Background(), "acme")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"acme", "acme-2"}, slugs)
}

func TestGormTenantRepository_FindByID(t *testing.T) {
	db := newTestDB(t)
	_, err := NewGormTenantRepository(db).FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTenantRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormTenantRepository(db)
	reg, _ := registerTestTenant(t, db, "Acme", "acme")

	first, err := repo.FindByID(ctx, reg.Tenant.ID)
	require.NoError(t, err)
	stale, err := repo.FindByID(ctx, reg.Tenant.ID)
	require.NoError(t, err)

	require.NoError(t, first.Deactivate())
	require.NoError(t, repo.SaveWithLock(ctx, first))
	assert.Equal(t, 2, first.Version)

	stale.Name = "Renamed"
	assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, reg.Tenant.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive())
	assert.Equal(t, "Acme", stored.Name)
}

func TestGormMembershipRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormMembershipRepository(db)
	regA, scopeA := registerTestTenant(t, db, "Acme", "acme")
	_, scopeB := registerTestTenant(t, db, "Globex", "globex")

	userID := uuid.New()
	for _, scope := range []tenant.Scope{scopeA, scopeB} {
		m, err := tenant.NewMembership(scope.TenantID(), userID, tenant.RoleEmployee)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, scope, m))
	}

	t.Run("lists a user's memberships across companies", func(t *testing.T) {
		memberships, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, memberships, 2)
	})

	t.Run("rejects a second membership in the same company", func(t *testing.T) {
		m, err := tenant.NewMembership(scopeA.TenantID(), userID, tenant.RoleAdmin)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, scopeA, m), shared.ErrAlreadyExists)
	})

	t.Run("does not find a user in a company they do not belong to", func(t *testing.T) {
		_, err := repo.FindByTenantAndUser(ctx, regA.Tenant.ID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("rejects an insert into another company's scope", func(t *testing.T) {
		m, err := tenant.NewMembership(scopeB.TenantID(), uuid.New(), tenant.RoleEmployee)
		require.NoError(t, err)
		assert.Error(t, repo.Create(ctx, scopeA, m))
	})
}
