package persistence

import (
	"fmt"
	"testing"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"ASC", "ASC"},
		{"  asc  ", "ASC"},
		{"desc", "DESC"},
		{"sideways", "DESC"},
		{"ASC; DROP TABLE documents;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "issue_date"},
		{"total_amount", "total_amount"},
		{"  number  ", "number"},
		{"NUMBER", "issue_date"},
		{"tenant_id", "issue_date"},
		{"number; DROP TABLE documents;--", "issue_date"},
		{"number'--", "issue_date"},
		{"CASE WHEN 1=1 THEN number ELSE status END", "issue_date"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, DocumentSortFields, "issue_date"))
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"LocationSortFields": LocationSortFields,
		"CustomerSortFields": CustomerSortFields,
		"SupplierSortFields": SupplierSortFields,
		"ProductSortFields":  ProductSortFields,
		"DocumentSortFields": DocumentSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			for _, field := range []string{"id", "created_at", "updated_at"} {
				assert.True(t, whitelist[field], "%s should contain %q", name, field)
			}
			assert.False(t, whitelist["tenant_id"], "%s must not expose tenant_id", name)
		})
	}
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%acme%", containsPattern("  ACME "))
	assert.Equal(t, "%50!% off!_sale!!%", containsPattern("50% off_sale!"))
}

type pagedRow struct {
	ID   string
	Name string
}

func (pagedRow) TableName() string { return "paged_rows" }

func newPagingDB(t *testing.T, names ...string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec(`CREATE TABLE paged_rows (id TEXT PRIMARY KEY, name TEXT NOT NULL)`).Error)
	for i, n := range names {
		require.NoError(t, db.Create(&pagedRow{ID: fmt.Sprintf("r%02d", i), Name: n}).Error)
	}
	return db
}

func TestListPage(t *testing.T) {
	allowed := map[string]bool{"id": true, "name": true}

	t.Run("counts all rows and returns the requested page", func(t *testing.T) {
		db := newPagingDB(t, "delta", "alpha", "charlie", "bravo", "echo")
		var rows []pagedRow
		total, err := listPage(db.Model(&pagedRow{}), shared.Filter{Page: 2, PageSize: 2, OrderBy: "name", OrderDir: "asc"}, allowed, "id", &rows)
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		require.Len(t, rows, 2)
		assert.Equal(t, "charlie", rows[0].Name)
		assert.Equal(t, "delta", rows[1].Name)
	})

	t.Run("unknown sort field falls back to default", func(t *testing.T) {
		db := newPagingDB(t, "b", "a")
		var rows []pagedRow
		_, err := listPage(db.Model(&pagedRow{}), shared.Filter{OrderBy: "name; DROP TABLE paged_rows", OrderDir: "asc"}, allowed, "id", &rows)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "r00", rows[0].ID)
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		db := newPagingDB(t, "50% off", "500 units", "half_price", "halfprice")
		search := func(term string) []string {
			var rows []pagedRow
			q := db.Model(&pagedRow{}).Where("LOWER(name) LIKE ?"+likeEscape, containsPattern(term))
			_, err := listPage(q, shared.Filter{OrderBy: "name", OrderDir: "asc"}, allowed, "id", &rows)
			require.NoError(t, err)
			out := make([]string, len(rows))
			for i, r := range rows {
				out[i] = r.Name
			}
			return out
		}

		assert.Equal(t, []string{"50% off"}, search("50%"))
		assert.Equal(t, []string{"half_price"}, search("F_P"))
		assert.Len(t, search("HALF"), 2)
	})
}
