package tenant

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	domain "github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func TestGuard_Query(t *testing.T) {
	t.Run("rejects an unscoped query on a tenant table", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		var results []TestModel
		err := db.WithContext(context.Background()).Where("name = ?", "x").Find(&results).Error

		assert.ErrorIs(t, err, ErrUnscopedQuery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a top-level OR that widens the tenant filter", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		scope := domain.TrustedScope(uuid.New(), uuid.New())
		var results []TestModel
		err := DB(context.Background(), db, scope).Or("name = ?", "x").Find(&results).Error

		assert.ErrorIs(t, err, ErrUnscopedQuery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ignores tables without a tenant column", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "global_models" WHERE slug = \$1`).
			WithArgs("acme").
			WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}))

		var results []GlobalModel
		err := db.Where("slug = ?", "acme").Find(&results).Error

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("allows an explicit cross-tenant read", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "test_models" WHERE name = \$1`).
			WithArgs("x").
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "name"}))

		var results []TestModel
		err := CrossTenant(db).Where("name = ?", "x").Find(&results).Error

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects an unscoped delete", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		err := db.Delete(&TestModel{}, "name = ?", "x").Error

		assert.ErrorIs(t, err, ErrUnscopedQuery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGuard_Create(t *testing.T) {
	tenantID := uuid.New()
	scope := domain.TrustedScope(tenantID, uuid.New())

	t.Run("inserts a row of the bound tenant", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "test_models"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		row := TestModel{ID: uuid.New(), TenantID: tenantID, Name: "ok"}
		err := DB(context.Background(), db, scope).Create(&row).Error

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a row of another tenant", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		rows := []TestModel{
			{ID: uuid.New(), TenantID: tenantID},
			{ID: uuid.New(), TenantID: uuid.New()},
		}
		err := DB(context.Background(), db, scope).Create(&rows).Error

		assert.ErrorIs(t, err, ErrTenantMismatch)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects an insert on an unbound session", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()

		err := db.Create(&TestModel{ID: uuid.New(), TenantID: tenantID}).Error

		assert.ErrorIs(t, err, ErrTenantIDRequired)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestExprContainsTenant(t *testing.T) {
	tests := []struct {
		name string
		expr clause.Expression
		want bool
	}{
		{"eq on column", clause.Eq{Column: clause.Column{Name: "tenant_id"}, Value: 1}, true},
		{"eq on string column", clause.Eq{Column: "tenant_id", Value: 1}, true},
		{"in on column", clause.IN{Column: clause.Column{Name: "tenant_id"}}, true},
		{"other column", clause.Eq{Column: clause.Column{Name: "name"}, Value: 1}, false},
		{"nested and", clause.And(clause.Eq{Column: clause.Column{Name: "tenant_id"}}, clause.Eq{Column: "id"}), true},
		{"raw predicate", clause.Expr{SQL: "tenant_id = ? AND id = ?"}, true},
		{"raw predicate with or", clause.Expr{SQL: "tenant_id = ? OR 1 = 1"}, false},
		{"or conditions", clause.Or(clause.Eq{Column: clause.Column{Name: "tenant_id"}}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exprContainsTenant(tt.expr))
		})
	}
}
