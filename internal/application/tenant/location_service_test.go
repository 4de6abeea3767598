package tenant

import (
	"context"
	"testing"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/domain/tenant/tenanttest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLocationService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(mockLocationRepository)
	svc := NewLocationService(repo)
	scope := tenanttest.Scope(tenant.RoleManager)

	repo.On("Create", ctx, scope, mock.MatchedBy(func(l *tenant.Location) bool {
		return l.TenantID == scope.TenantID() && l.Type == tenant.LocationWarehouse && l.Address.City == "Pune"
	})).Return(nil)

	resp, err := svc.Create(ctx, scope, CreateLocationRequest{
		Name:         " Pune Warehouse ",
		LocationType: "WAREHOUSE",
		Email:        "Ops@Example.com",
		Address:      AddressDTO{City: " Pune "},
	})

	require.NoError(t, err)
	assert.Equal(t, "Pune Warehouse", resp.Name)
	assert.Equal(t, "ops@example.com", resp.Email)
	assert.False(t, resp.IsHeadquarters)
	assert.True(t, resp.IsActive)
}

func TestLocationService_CreateForbiddenForEmployee(t *testing.T) {
	repo := new(mockLocationRepository)
	_, err := NewLocationService(repo).Create(context.Background(), tenanttest.Scope(tenant.RoleEmployee), CreateLocationRequest{Name: "X"})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestLocationService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(mockLocationRepository)
	scope := tenanttest.Scope(tenant.RoleEmployee)
	active := true

	loc, _ := tenant.NewLocation(scope, "Branch", tenant.LocationBranch)
	repo.On("List", ctx, scope, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2 && f.PageSize == 5 &&
			f.Filters[tenant.LocationFilterIsActive] == true &&
			f.Filters[tenant.LocationFilterType] == "BRANCH"
	})).Return([]tenant.Location{*loc}, int64(6), nil)

	page, err := NewLocationService(repo).List(ctx, scope, LocationListFilter{
		LocationType: "BRANCH", IsActive: &active, Page: 2, Limit: 5,
	})

	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(6), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestLocationService_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("branch is deactivated", func(t *testing.T) {
		repo := new(mockLocationRepository)
		scope := tenanttest.Scope(tenant.RoleAdmin)
		loc, _ := tenant.NewLocation(scope, "Branch", tenant.LocationBranch)
		repo.On("FindByID", ctx, scope, loc.ID).Return(loc, nil)
		repo.On("SaveWithLock", ctx, scope, loc).Return(nil)

		resp, err := NewLocationService(repo).Deactivate(ctx, scope, loc.ID)

		require.NoError(t, err)
		assert.False(t, resp.IsActive)
	})

	t.Run("headquarters stays", func(t *testing.T) {
		repo := new(mockLocationRepository)
		scope := tenanttest.Scope(tenant.RoleOwner)
		reg, err := tenant.NewRegistration("Acme", "acme", scope.ActorID())
		require.NoError(t, err)
		repo.On("FindByID", ctx, scope, reg.HeadOffice.ID).Return(reg.HeadOffice, nil)

		_, err = NewLocationService(repo).Deactivate(ctx, scope, reg.HeadOffice.ID)

		assert.ErrorIs(t, err, shared.ErrConflict)
		repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("manager cannot delete", func(t *testing.T) {
		repo := new(mockLocationRepository)
		_, err := NewLocationService(repo).Deactivate(ctx, tenanttest.Scope(tenant.RoleManager), uuid.New())
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}
