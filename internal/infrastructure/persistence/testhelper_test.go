package persistence

import (
	"fmt"
	"testing"
	"time"

	"github.com/forgeledger/backend/internal/domain/tenant"
	tenantdb "github.com/forgeledger/backend/internal/infrastructure/persistence/tenant"
	"github.com/forgeledger/backend/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the full schema
// and the tenant guard installed.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)
	require.NoError(t, tenantdb.Register(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	schema, err := migrations.UpSQL("sqlite")
	require.NoError(t, err)
	_, err = sqlDB.Exec(schema)
	require.NoError(t, err)

	return db
}

// newTestScope returns an owner scope for a fresh tenant id.
func newTestScope() tenant.Scope {
	return tenant.TrustedScope(uuid.New(), uuid.New())
}
