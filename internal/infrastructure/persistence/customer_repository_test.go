package persistence

import (
	"context"
	"sync"
	"testing"

	"github.com/forgeledger/backend/internal/domain/partner"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCustomer(t *testing.T, scope tenant.Scope, name string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(scope, partner.CustomerProfile{
		Name:         name,
		CustomerType: partner.CustomerTypeIndividual,
		Email:        "buyer@example.com",
		CreditLimit:  decimal.NewFromInt(5000),
	})
	require.NoError(t, err)
	return c
}

func TestGormCustomerRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns sequential codes", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormCustomerRepository(db, NewCodeSequencer(0))
		scope := newTestScope()

		first := newTestCustomer(t, scope, "Asha Traders")
		second := newTestCustomer(t, scope, "Bharat Stores")
		require.NoError(t, repo.Create(ctx, scope, first))
		require.NoError(t, repo.Create(ctx, scope, second))

		assert.Equal(t, "CUST-001", first.Code)
		assert.Equal(t, "CUST-002", second.Code)
		assert.Len(t, first.GetDomainEvents(), 1)
	})

	t.Run("rejects a duplicate name regardless of case and spacing", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormCustomerRepository(db, NewCodeSequencer(0))
		scope := newTestScope()

		require.NoError(t, repo.Create(ctx, scope, newTestCustomer(t, scope, "Asha Traders")))
		err := repo.Create(ctx, scope, newTestCustomer(t, scope, "  asha   TRADERS "))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)

		// The failed attempt must not consume a code.
		next := newTestCustomer(t, scope, "Chetan & Co")
		require.NoError(t, repo.Create(ctx, scope, next))
		assert.Equal(t, "CUST-002", next.Code)
	})

	t.Run("the same name and code may exist in another tenant", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormCustomerRepository(db, NewCodeSequencer(0))
		scopeA, scopeB := newTestScope(), newTestScope()

		a := newTestCustomer(t, scopeA, "Asha Traders")
		b := newTestCustomer(t, scopeB, "Asha Traders")
		require.NoError(t, repo.Create(ctx, scopeA, a))
		require.NoError(t, repo.Create(ctx, scopeB, b))
		assert.Equal(t, a.Code, b.Code)
	})

	t.Run("concurrent creates never share a code", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewGormCustomerRepository(db, NewCodeSequencer(0))
		scope := newTestScope()

		const n = 8
		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			codes = map[string]bool{}
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				c := newTestCustomer(t, scope, "Customer "+string(rune('A'+i)))
				if assert.NoError(t, repo.Create(ctx, scope, c)) {
					mu.Lock()
					codes[c.Code] = true
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
		assert.Len(t, codes, n)
	})
}

func TestGormCustomerRepository_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormCustomerRepository(db, NewCodeSequencer(0))
	scopeA, scopeB := newTestScope(), newTestScope()

	c := newTestCustomer(t, scopeA, "Asha Traders")
	require.NoError(t, repo.Create(ctx, scopeA, c))

	t.Run("another tenant gets not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, scopeB, c.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("another tenant's list is empty", func(t *testing.T) {
		items, total, err := repo.List(ctx, scopeB, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, items)
	})

	t.Run("another tenant cannot overwrite the row", func(t *testing.T) {
		forged := *c
		forged.TenantID = scopeB.TenantID()
		forged.Name = "Hijacked"
		assert.ErrorIs(t, repo.SaveWithLock(ctx, scopeB, &forged), shared.ErrConcurrencyConflict)

		stored, err := repo.FindByID(ctx, scopeA, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Asha Traders", stored.Name)
	})

	t.Run("a zero scope is refused", func(t *testing.T) {
		_, err := repo.FindByID(ctx, tenant.Scope{}, c.ID)
		assert.Error(t, err)
	})
}

func TestGormCustomerRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormCustomerRepository(db, NewCodeSequencer(0))
	scope := newTestScope()

	c := newTestCustomer(t, scope, "Asha Traders")
	require.NoError(t, repo.Create(ctx, scope, c))
	require.NoError(t, repo.Create(ctx, scope, newTestCustomer(t, scope, "Bharat Stores")))

	t.Run("bumps the version", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, scope, c.ID)
		require.NoError(t, err)
		profile := loaded.CustomerProfile
		profile.Phone = "+91 98450 00000"
		require.NoError(t, loaded.Update(profile))
		require.NoError(t, repo.SaveWithLock(ctx, scope, loaded))
		assert.Equal(t, 2, loaded.Version)

		stored, err := repo.FindByID(ctx, scope, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "+91 98450 00000", stored.Phone)
		assert.Equal(t, "CUST-001", stored.Code)
	})

	t.Run("a stale copy loses", func(t *testing.T) {
		stale := *c
		assert.ErrorIs(t, repo.SaveWithLock(ctx, scope, &stale), shared.ErrConcurrencyConflict)
	})

	t.Run("renaming onto an existing name is rejected", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, scope, c.ID)
		require.NoError(t, err)
		profile := loaded.CustomerProfile
		profile.Name = "BHARAT STORES"
		require.NoError(t, loaded.Update(profile))
		assert.ErrorIs(t, repo.SaveWithLock(ctx, scope, loaded), shared.ErrAlreadyExists)
	})

	t.Run("deactivation persists", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, scope, c.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.Deactivate())
		require.NoError(t, repo.SaveWithLock(ctx, scope, loaded))

		stored, err := repo.FindByID(ctx, scope, c.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsActive)
	})
}

func TestGormCustomerRepository_List(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormCustomerRepository(db, NewCodeSequencer(0))
	scope := newTestScope()

	for _, name := range []string{"Asha Traders", "Bharat Stores", "Asha Exports", "50% Off_Outlet"} {
		require.NoError(t, repo.Create(ctx, scope, newTestCustomer(t, scope, name)))
	}

	t.Run("searches name case-insensitively", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.Search = "ASHA"
		items, total, err := repo.List(ctx, scope, f)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, items, 2)
	})

	t.Run("treats LIKE wildcards literally", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.Search = "50% off_"
		_, total, err := repo.List(ctx, scope, f)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("searches by code", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.Search = "cust-002"
		items, _, err := repo.List(ctx, scope, f)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Bharat Stores", items[0].Name)
	})

	t.Run("pages with a stable order and full total", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.OrderBy = "code"
		f.OrderDir = "asc"
		f.PageSize = 3
		f.Page = 2
		items, total, err := repo.List(ctx, scope, f)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, items, 1)
		assert.Equal(t, "CUST-004", items[0].Code)
	})

	t.Run("unknown sort field falls back to the default", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.OrderBy = "name; DROP TABLE customers"
		_, total, err := repo.List(ctx, scope, f)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("filters by active flag", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.Filters[partner.FilterIsActive] = false
		_, total, err := repo.List(ctx, scope, f)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestGormCustomerRepository_ExistsByName(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormCustomerRepository(db, NewCodeSequencer(0))
	scope := newTestScope()

	c := newTestCustomer(t, scope, "Asha Traders")
	require.NoError(t, repo.Create(ctx, scope, c))

	exists, err := repo.ExistsByName(ctx, scope, "asha traders", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, scope, "Asha Traders", c.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByName(ctx, newTestScope(), "Asha Traders", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, exists)
}
