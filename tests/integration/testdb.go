// Package integration runs the HTTP API end to end against real databases:
// an in-memory SQLite database for every test and PostgreSQL in a
// testcontainers container for the suites that need row locks.
package integration

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/forgeledger/backend/internal/infrastructure/migration"
	"github.com/forgeledger/backend/internal/infrastructure/persistence"
	"github.com/forgeledger/backend/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// Shared container for all tests in the package
	sharedContainer    testcontainers.Container
	sharedContainerMu  sync.Mutex
	sharedContainerDSN string
)

func gormLogger() logger.Interface {
	if os.Getenv("TEST_DB_DEBUG") != "" {
		return logger.Default.LogMode(logger.Info)
	}
	return logger.Default.LogMode(logger.Silent)
}

// NewSQLiteDB opens a private in-memory SQLite database with the schema
// applied and the tenant guard installed.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	d, err := persistence.Open(sqlite.Open(dsn), gormLogger())
	require.NoError(t, err)

	sqlDB, err := d.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	schema, err := migrations.UpSQL("sqlite")
	require.NoError(t, err)
	_, err = sqlDB.Exec(schema)
	require.NoError(t, err, "Failed to apply sqlite schema")

	return d.DB
}

// NewPostgresDB returns a connection to a fresh database in the shared
// PostgreSQL container, migrated with golang-migrate. Skipped with -short.
func NewPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}

	adminDSN := sharedPostgres(t)

	// One database per test keeps sequences and unique indexes independent.
	name := "fl_" + uuid.NewString()[:8]
	admin, err := gorm.Open(gormpostgres.Open(adminDSN), &gorm.Config{Logger: gormLogger()})
	require.NoError(t, err)
	require.NoError(t, admin.Exec("CREATE DATABASE "+name).Error)
	adminSQL, err := admin.DB()
	require.NoError(t, err)
	require.NoError(t, adminSQL.Close())

	dsn, err := swapDatabase(adminDSN, name)
	require.NoError(t, err)

	m, err := migration.New("postgres", dsn, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up(), "Failed to run migrations")
	require.NoError(t, m.Close())

	d, err := persistence.Open(gormpostgres.Open(dsn), gormLogger())
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := d.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return d.DB
}

func sharedPostgres(t *testing.T) string {
	t.Helper()

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		return sharedContainerDSN
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("forgeledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	sharedContainer = container
	sharedContainerDSN = dsn
	return dsn
}

// CleanupSharedContainer terminates the shared container. TestMain calls it.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sharedContainer.Terminate(ctx)
		sharedContainer = nil
		sharedContainerDSN = ""
	}
}

// swapDatabase points a postgres URL at another database on the same server.
func swapDatabase(dsn, name string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid dsn: %w", err)
	}
	u.Path = "/" + name
	return u.String(), nil
}
