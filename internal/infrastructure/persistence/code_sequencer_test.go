package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/forgeledger/backend/internal/domain/sequence"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/persistence/models"
	tenantdb "github.com/forgeledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func nextCodeIn(t *testing.T, db *gorm.DB, seq *CodeSequencer, scope tenant.Scope, category sequence.Category, period int) string {
	t.Helper()
	var code string
	err := tenantdb.Transaction(context.Background(), db, scope, func(tx *gorm.DB) error {
		var err error
		code, err = seq.Next(tx, category, period)
		return err
	})
	require.NoError(t, err)
	return code
}

func TestCodeSequencer_Next(t *testing.T) {
	ctx := context.Background()

	t.Run("counts from one per tenant and category", func(t *testing.T) {
		db := newTestDB(t)
		seq := NewCodeSequencer(0)
		scope := newTestScope()

		var codes []string
		for i := 0; i < 3; i++ {
			codes = append(codes, nextCodeIn(t, db, seq, scope, sequence.CategoryCustomer, 0))
		}
		assert.Equal(t, []string{"CUST-001", "CUST-002", "CUST-003"}, codes)

		assert.Equal(t, "SUP-001", nextCodeIn(t, db, seq, scope, sequence.CategorySupplier, 0))
		assert.Equal(t, "CUST-001", nextCodeIn(t, db, seq, newTestScope(), sequence.CategoryCustomer, 0))
	})

	t.Run("yearly families restart each period", func(t *testing.T) {
		db := newTestDB(t)
		seq := NewCodeSequencer(0)
		scope := newTestScope()

		assert.Equal(t, "INV-2024-0001", nextCodeIn(t, db, seq, scope, sequence.CategoryInvoice, 2024))
		assert.Equal(t, "INV-2024-0002", nextCodeIn(t, db, seq, scope, sequence.CategoryInvoice, 2024))
		assert.Equal(t, "INV-2025-0001", nextCodeIn(t, db, seq, scope, sequence.CategoryInvoice, 2025))
	})

	t.Run("seeds the counter from codes already stored", func(t *testing.T) {
		db := newTestDB(t)
		seq := NewCodeSequencer(0)
		scope := newTestScope()

		existing := &models.CustomerModel{Code: "CUST-041", Name: "Imported", NameKey: "imported", CustomerType: "INDIVIDUAL", Category: "OTHER", PaymentTerms: "NET30", IsActive: true}
		existing.ID = uuid.New()
		existing.TenantID = scope.TenantID()
		existing.Version = 1
		require.NoError(t, tenantdb.DB(ctx, db, scope).Create(existing).Error)

		assert.Equal(t, "CUST-042", nextCodeIn(t, db, seq, scope, sequence.CategoryCustomer, 0))
	})

	t.Run("rejects an unbound transaction", func(t *testing.T) {
		db := newTestDB(t)
		_, err := NewCodeSequencer(0).Next(db, sequence.CategoryCustomer, 0)
		assert.ErrorIs(t, err, tenantdb.ErrTenantIDRequired)
	})

	t.Run("rejects an unknown category", func(t *testing.T) {
		db := newTestDB(t)
		scope := newTestScope()
		err := tenantdb.Transaction(ctx, db, scope, func(tx *gorm.DB) error {
			_, err := NewCodeSequencer(0).Next(tx, sequence.Category("widget"), 0)
			return err
		})
		assert.Error(t, err)
	})

	t.Run("rolled back allocations are reused", func(t *testing.T) {
		db := newTestDB(t)
		seq := NewCodeSequencer(0)
		scope := newTestScope()
		boom := errors.New("boom")

		assert.Equal(t, "SUP-001", nextCodeIn(t, db, seq, scope, sequence.CategorySupplier, 0))
		err := tenantdb.Transaction(ctx, db, scope, func(tx *gorm.DB) error {
			_, err := seq.Next(tx, sequence.CategorySupplier, 0)
			require.NoError(t, err)
			return boom
		})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, "SUP-002", nextCodeIn(t, db, seq, scope, sequence.CategorySupplier, 0))
	})
}

func TestCodeSequencer_ConcurrentAllocation(t *testing.T) {
	db := newTestDB(t)
	seq := NewCodeSequencer(0)
	scope := newTestScope()

	const workers = 10
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = make(map[string]int)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var code string
			err := tenantdb.Transaction(context.Background(), db, scope, func(tx *gorm.DB) error {
				var err error
				code, err = seq.Next(tx, sequence.CategoryOrder, 2024)
				return err
			})
			if assert.NoError(t, err) {
				mu.Lock()
				codes[code]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, codes, workers)
	for i := int64(1); i <= workers; i++ {
		assert.Equal(t, 1, codes[sequence.CategoryOrder.Format(2024, i)])
	}
}

func TestCodeSequencer_Retry(t *testing.T) {
	ctx := context.Background()
	seq := NewCodeSequencer(3)

	t.Run("re-runs after a unique violation", func(t *testing.T) {
		calls := 0
		err := seq.Retry(ctx, sequence.CategoryCustomer, func() error {
			calls++
			if calls < 2 {
				return gorm.ErrDuplicatedKey
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("returns other errors immediately", func(t *testing.T) {
		calls := 0
		err := seq.Retry(ctx, sequence.CategoryCustomer, func() error {
			calls++
			return shared.NewAlreadyExistsError("Customer", "name", "Acme")
		})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up with a conflict once the budget is spent", func(t *testing.T) {
		calls := 0
		err := seq.Retry(ctx, sequence.CategoryCustomer, func() error {
			calls++
			return gorm.ErrDuplicatedKey
		})
		assert.ErrorIs(t, err, shared.ErrConflict)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when the context is done", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := seq.Retry(cctx, sequence.CategoryCustomer, func() error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
