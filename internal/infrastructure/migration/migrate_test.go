package migration

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrator_SQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	m, err := New("sqlite", "sqlite3://"+path, zap.NewNop())
	require.NoError(t, err)
	defer m.Close()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, m.Up())
	require.NoError(t, m.Up(), "second run is a no-op")

	version, dirty, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'code_sequences'").Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, m.Down())
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'documents'").Scan(&count))
	assert.Zero(t, count)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New("oracle", "oracle://nowhere", zap.NewNop())
	assert.Error(t, err)
}
