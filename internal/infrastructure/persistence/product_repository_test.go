package persistence

import (
	"context"
	"testing"

	"github.com/forgeledger/backend/internal/domain/catalog"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, scope tenant.Scope, code, name string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(scope, code, catalog.ProductDetails{
		Name:          name,
		UnitOfMeasure: "PCS",
		CostPrice:     decimal.NewFromInt(80),
		SellingPrice:  decimal.NewFromInt(120),
	}, decimal.NewFromInt(10))
	require.NoError(t, err)
	return p
}

func TestGormProductRepository_Create(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	scope := newTestScope()

	require.NoError(t, repo.Create(ctx, scope, newTestProduct(t, scope, "tsh-01", "Cotton T-Shirt")))

	t.Run("stores the code upper-cased", func(t *testing.T) {
		items, _, err := repo.List(ctx, scope, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "TSH-01", items[0].Code)
		assert.True(t, items[0].StockQuantity.Equal(decimal.NewFromInt(10)))
	})

	t.Run("duplicate code names the code field", func(t *testing.T) {
		err := repo.Create(ctx, scope, newTestProduct(t, scope, "TSH-01", "Linen Shirt"))
		require.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.Contains(t, err.Error(), "code")
	})

	t.Run("duplicate name names the name field", func(t *testing.T) {
		err := repo.Create(ctx, scope, newTestProduct(t, scope, "TSH-02", "cotton t-shirt"))
		require.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("another tenant may reuse code and name", func(t *testing.T) {
		other := newTestScope()
		assert.NoError(t, repo.Create(ctx, other, newTestProduct(t, other, "TSH-01", "Cotton T-Shirt")))
	})
}

func TestGormProductRepository_FindByIDs(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	scopeA, scopeB := newTestScope(), newTestScope()

	mine := newTestProduct(t, scopeA, "A-1", "Mine")
	theirs := newTestProduct(t, scopeB, "B-1", "Theirs")
	require.NoError(t, repo.Create(ctx, scopeA, mine))
	require.NoError(t, repo.Create(ctx, scopeB, theirs))

	found, err := repo.FindByIDs(ctx, scopeA, []uuid.UUID{mine.ID, theirs.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, mine.ID, found[0].ID)

	empty, err := repo.FindByIDs(ctx, scopeA, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGormProductRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormProductRepository(db)
	scope := newTestScope()

	p := newTestProduct(t, scope, "TSH-01", "Cotton T-Shirt")
	require.NoError(t, repo.Create(ctx, scope, p))

	loaded, err := repo.FindByID(ctx, scope, p.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.AdjustStock(decimal.NewFromInt(-4)))
	require.NoError(t, repo.SaveWithLock(ctx, scope, loaded))

	stored, err := repo.FindByID(ctx, scope, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.StockQuantity.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, 2, stored.Version)

	assert.ErrorIs(t, repo.SaveWithLock(ctx, scope, p), shared.ErrConcurrencyConflict)
}
