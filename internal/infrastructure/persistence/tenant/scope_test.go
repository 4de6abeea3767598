package tenant

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	domain "github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestModel is a simple tenant-scoped model
type TestModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"size:100"`
}

func (TestModel) TableName() string {
	return "test_models"
}

// GlobalModel has no tenant column
type GlobalModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slug string
}

func (GlobalModel) TableName() string {
	return "global_models"
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, Register(gormDB))

	return gormDB, mock, mockDB
}

func TestDB(t *testing.T) {
	tenantID := uuid.New()
	scope := domain.TrustedScope(tenantID, uuid.New())

	t.Run("applies tenant filter to query", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "test_models" WHERE "test_models"."tenant_id" = \$1 AND name = \$2`).
			WithArgs(tenantID, "widget").
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

		var results []TestModel
		err := DB(context.Background(), db, scope).Where("name = ?", "widget").Find(&results).Error
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("session can be reused without accumulating conditions", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		scoped := DB(context.Background(), db, scope)
		for _, name := range []string{"a", "b"} {
			mock.ExpectQuery(`SELECT \* FROM "test_models" WHERE "test_models"."tenant_id" = \$1 AND name = \$2$`).
				WithArgs(tenantID, name).
				WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

			var results []TestModel
			require.NoError(t, scoped.Where("name = ?", name).Find(&results).Error)
		}

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails closed without a scope", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		var results []TestModel
		err := DB(context.Background(), db, domain.Scope{}).Find(&results).Error

		assert.ErrorIs(t, err, ErrTenantIDRequired)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("scopes updates", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`UPDATE "test_models" SET "name"=\$1 WHERE "test_models"."tenant_id" = \$2 AND .*"id" = \$3`).
			WithArgs("renamed", tenantID, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := DB(context.Background(), db, scope).Model(&TestModel{ID: id}).Update("name", "renamed").Error
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransaction(t *testing.T) {
	t.Run("rejects an invalid scope before opening a transaction", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		called := false
		err := Transaction(context.Background(), db, domain.Scope{}, func(tx *gorm.DB) error {
			called = true
			return nil
		})

		assert.ErrorIs(t, err, ErrTenantIDRequired)
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("binds the transaction to the scope", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "test_models" WHERE "test_models"."tenant_id" = \$1`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectCommit()

		var count int64
		err := Transaction(context.Background(), db, domain.TrustedScope(tenantID, uuid.New()), func(tx *gorm.DB) error {
			bound, ok := BoundTenant(tx)
			assert.True(t, ok)
			assert.Equal(t, tenantID, bound)
			return tx.Model(&TestModel{}).Count(&count).Error
		})

		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
