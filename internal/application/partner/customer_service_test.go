package partner

import (
	"context"
	"testing"

	appevent "github.com/forgeledger/backend/internal/application/event"
	"github.com/forgeledger/backend/internal/domain/partner"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/domain/tenant/tenanttest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func businessRequest(name string) CustomerRequest {
	return CustomerRequest{
		Name:         name,
		CustomerType: "BUSINESS",
		CompanyName:  name + " Pvt Ltd",
		Email:        "accounts@example.com",
		CreditLimit:  decimal.NewFromInt(50000),
	}
}

func newCustomerService() (*CustomerService, *MockCustomerRepository, *mockPublisher) {
	repo := new(MockCustomerRepository)
	pub := new(mockPublisher)
	return NewCustomerService(repo, appevent.NewDispatcher(pub, zap.NewNop())), repo, pub
}

func existingCustomer(t *testing.T, scope tenant.Scope, name string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(scope, businessRequest(name).profile())
	require.NoError(t, err)
	require.NoError(t, c.AssignCode("CUST-001"))
	c.ClearDomainEvents()
	return c
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns code and publishes PartyCreated", func(t *testing.T) {
		svc, repo, pub := newCustomerService()
		scope := tenanttest.Scope(tenant.RoleManager)
		repo.On("Create", mock.Anything, scope, mock.AnythingOfType("*partner.Customer")).
			Run(func(args mock.Arguments) {
				require.NoError(t, args.Get(2).(*partner.Customer).AssignCode("CUST-007"))
			}).Return(nil)
		pub.On("Publish", mock.Anything, mock.MatchedBy(func(evs []shared.DomainEvent) bool {
			return len(evs) == 1 && evs[0].EventType() == partner.EventTypePartyCreated
		})).Return(nil)

		resp, err := svc.Create(ctx, scope, businessRequest("Acme"))

		require.NoError(t, err)
		assert.Equal(t, "CUST-007", resp.Code)
		assert.Equal(t, "OTHER", resp.Category)
		assert.Equal(t, "NET30", resp.PaymentTerms)
		assert.True(t, resp.IsActive)
		pub.AssertExpectations(t)
	})

	t.Run("employee is forbidden", func(t *testing.T) {
		svc, repo, _ := newCustomerService()
		_, err := svc.Create(ctx, tenanttest.Scope(tenant.RoleEmployee), businessRequest("Acme"))
		assert.ErrorIs(t, err, shared.ErrForbidden)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("business customer without company name", func(t *testing.T) {
		svc, repo, _ := newCustomerService()
		req := businessRequest("Acme")
		req.CompanyName = ""
		req.CreditLimit = decimal.NewFromInt(-1)

		_, err := svc.Create(ctx, tenanttest.Scope(tenant.RoleOwner), req)

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeValidation, de.Code)
		fields := make([]string, len(de.Details))
		for i, d := range de.Details {
			fields[i] = d.Field
		}
		assert.ElementsMatch(t, []string{"company_name", "credit_limit"}, fields)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate name from repository", func(t *testing.T) {
		svc, repo, pub := newCustomerService()
		scope := tenanttest.Scope(tenant.RoleOwner)
		repo.On("Create", mock.Anything, scope, mock.Anything).
			Return(shared.NewAlreadyExistsError("Customer", "name", "Acme"))

		_, err := svc.Create(ctx, scope, businessRequest("Acme"))

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("rename checks uniqueness excluding itself", func(t *testing.T) {
		svc, repo, _ := newCustomerService()
		scope := tenanttest.Scope(tenant.RoleAdmin)
		c := existingCustomer(t, scope, "Acme")
		repo.On("FindByID", ctx, scope, c.ID).Return(c, nil)
		repo.On("ExistsByName", ctx, scope, "Globex", c.ID).Return(false, nil)
		repo.On("SaveWithLock", ctx, scope, c).Return(nil)

		resp, err := svc.Update(ctx, scope, c.ID, businessRequest("Globex"))

		require.NoError(t, err)
		assert.Equal(t, "Globex", resp.Name)
		assert.Equal(t, "CUST-001", resp.Code)
	})

	t.Run("case-only rename skips the uniqueness check", func(t *testing.T) {
		svc, repo, _ := newCustomerService()
		scope := tenanttest.Scope(tenant.RoleAdmin)
		c := existingCustomer(t, scope, "Acme")
		repo.On("FindByID", ctx, scope, c.ID).Return(c, nil)
		repo.On("SaveWithLock", ctx, scope, c).Return(nil)

		_, err := svc.Update(ctx, scope, c.ID, businessRequest("ACME"))

		require.NoError(t, err)
		repo.AssertNotCalled(t, "ExistsByName", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rename onto a taken name", func(t *testing.T) {
		svc, repo, _ := newCustomerService()
		scope := tenanttest.Scope(tenant.RoleAdmin)
		c := existingCustomer(t, scope, "Acme")
		repo.On("FindByID", ctx, scope, c.ID).Return(c, nil)
		repo.On("ExistsByName", ctx, scope, "Globex", c.ID).Return(true, nil)

		_, err := svc.Update(ctx, scope, c.ID, businessRequest("Globex"))

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("inactive customer is a conflict", func(t *testing.T) {
		svc, repo, _ := newCustomerService()
		scope := tenanttest.Scope(tenant.RoleAdmin)
		c := existingCustomer(t, scope, "Acme")
		require.NoError(t, c.Deactivate())
		repo.On("FindByID", ctx, scope, c.ID).Return(c, nil)

		_, err := svc.Update(ctx, scope, c.ID, businessRequest("Acme"))

		assert.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("other tenant's customer is not found", func(t *testing.T) {
		svc, repo, _ := newCustomerService()
		scope := tenanttest.Scope(tenant.RoleAdmin)
		id := uuid.New()
		repo.On("FindByID", ctx, scope, id).Return(nil, shared.NewNotFoundError("Customer"))

		_, err := svc.Update(ctx, scope, id, businessRequest("Acme"))

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCustomerService_DeactivateAndActivate(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCustomerService()
	scope := tenanttest.Scope(tenant.RoleAdmin)
	c := existingCustomer(t, scope, "Acme")
	repo.On("FindByID", ctx, scope, c.ID).Return(c, nil)
	repo.On("SaveWithLock", ctx, scope, c).Return(nil)

	resp, err := svc.Deactivate(ctx, scope, c.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	_, err = svc.Deactivate(ctx, scope, c.ID)
	assert.ErrorIs(t, err, shared.ErrConflict)

	resp, err = svc.Activate(ctx, scope, c.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsActive)

	_, err = svc.Deactivate(ctx, tenanttest.Scope(tenant.RoleManager), c.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newCustomerService()
	scope := tenanttest.Scope(tenant.RoleEmployee)
	inactive := false
	c := existingCustomer(t, scope, "Acme")

	repo.On("List", ctx, scope, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "acm" && f.PageSize == shared.DefaultPageSize &&
			f.Filters[partner.FilterIsActive] == false &&
			f.Filters[partner.FilterCustomerType] == "BUSINESS" &&
			f.OrderBy == "name" && f.OrderDir == "asc"
	})).Return([]partner.Customer{*c}, int64(1), nil)

	page, err := svc.List(ctx, scope, CustomerListFilter{
		Search: " acm ", CustomerType: "BUSINESS", IsActive: &inactive, OrderBy: "name", OrderDir: "asc",
	})

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "CUST-001", page.Items[0].Code)
	assert.Equal(t, 1, page.TotalPages)
}
