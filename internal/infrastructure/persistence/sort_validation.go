package persistence

import (
	"strings"

	"github.com/forgeledger/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// LocationSortFields contains allowed sort fields for locations
var LocationSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"name":          true,
	"location_type": true,
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"customer_type": true,
	"category":      true,
	"credit_limit":  true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"supplier_type": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"code":           true,
	"name":           true,
	"selling_price":  true,
	"cost_price":     true,
	"stock_quantity": true,
}

// DocumentSortFields contains allowed sort fields for every document kind
var DocumentSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"number":            true,
	"status":            true,
	"issue_date":        true,
	"due_date":          true,
	"counterparty_name": true,
	"total_amount":      true,
	"balance_due":       true,
}

// applyPaging adds a whitelisted ORDER BY plus LIMIT/OFFSET. The id tie-break
// keeps pages stable when the sort column has duplicates.
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// likeEscape must follow every LIKE that takes a containsPattern argument.
const likeEscape = " ESCAPE '!'"

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// containsPattern returns a lower-cased LIKE pattern matching s anywhere.
// Callers compare it against LOWER(column) so search is case-insensitive on
// every driver.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// listPage counts the rows matched by query and loads the requested page
// into dest.
func listPage(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string, dest any) (int64, error) {
	query = query.Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	if err := applyPaging(query, filter, allowed, defaultField).Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}
