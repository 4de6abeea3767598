package partner

import (
	"context"
	"testing"

	appevent "github.com/forgeledger/backend/internal/application/event"
	"github.com/forgeledger/backend/internal/domain/partner"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/domain/tenant/tenanttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSupplierService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSupplierRepository)
	pub := new(mockPublisher)
	svc := NewSupplierService(repo, appevent.NewDispatcher(pub, zap.NewNop()))
	scope := tenanttest.Scope(tenant.RoleOwner)

	repo.On("Create", mock.Anything, scope, mock.AnythingOfType("*partner.Supplier")).
		Run(func(args mock.Arguments) {
			require.NoError(t, args.Get(2).(*partner.Supplier).AssignCode("SUP-001"))
		}).Return(nil)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Create(ctx, scope, SupplierRequest{
		Name:         "Steel Works",
		SupplierType: "MANUFACTURER",
		Phone:        "+91 98765 43210",
		PaymentTerms: "NET45",
	})

	require.NoError(t, err)
	assert.Equal(t, "SUP-001", resp.Code)
	assert.Equal(t, "NET45", resp.PaymentTerms)
}

func TestSupplierService_CreateRejectsBadPhone(t *testing.T) {
	repo := new(MockSupplierRepository)
	svc := NewSupplierService(repo, appevent.NewDispatcher(nil, nil))

	_, err := svc.Create(context.Background(), tenanttest.Scope(tenant.RoleOwner), SupplierRequest{
		Name:         "Steel Works",
		SupplierType: "MANUFACTURER",
		Phone:        "call me",
	})

	assert.ErrorIs(t, err, shared.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSupplierService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSupplierRepository)
	svc := NewSupplierService(repo, nil)
	scope := tenanttest.Scope(tenant.RoleEmployee)

	repo.On("List", ctx, scope, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters[partner.FilterSupplierType] == "IMPORTER" && f.Page == 3 && f.PageSize == 10
	})).Return([]partner.Supplier{}, int64(21), nil)

	page, err := svc.List(ctx, scope, SupplierListFilter{SupplierType: "IMPORTER", Page: 3, Limit: 10})

	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 3, page.TotalPages)
}
