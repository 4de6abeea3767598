package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategory_Format(t *testing.T) {
	tests := []struct {
		category Category
		period   int
		n        int64
		want     string
	}{
		{CategoryCustomer, 0, 1, "CUST-001"},
		{CategoryCustomer, 0, 42, "CUST-042"},
		{CategoryCustomer, 0, 1000, "CUST-1000"},
		{CategorySupplier, 0, 7, "SUP-007"},
		{CategoryInvoice, 2024, 7, "INV-2024-0007"},
		{CategoryOrder, 2025, 123, "ORD-2025-0123"},
		{CategoryBill, 2025, 1, "BILL-2025-0001"},
		{CategoryPurchaseOrder, 2026, 10000, "PO-2026-10000"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.Format(tt.period, tt.n))
		})
	}
}

func TestCategory_Parse(t *testing.T) {
	n, ok := CategoryCustomer.Parse(0, "CUST-017")
	assert.True(t, ok)
	assert.Equal(t, int64(17), n)

	n, ok = CategoryInvoice.Parse(2024, "INV-2024-0007")
	assert.True(t, ok)
	assert.Equal(t, int64(7), n)

	_, ok = CategoryInvoice.Parse(2025, "INV-2024-0007")
	assert.False(t, ok, "code from another year")

	_, ok = CategoryCustomer.Parse(0, "CUST-ABC")
	assert.False(t, ok)

	_, ok = CategoryCustomer.Parse(0, "SUP-001")
	assert.False(t, ok)
}

func TestCategory_Highest(t *testing.T) {
	codes := []string{"CUST-009", "CUST-010", "CUST-002", "legacy", "CUST-1000"}
	assert.Equal(t, int64(1000), CategoryCustomer.Highest(0, codes))
	assert.Equal(t, int64(0), CategoryCustomer.Highest(0, nil))
}

func TestCategory_Period(t *testing.T) {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2024, CategoryInvoice.Period(at))
	assert.Equal(t, 0, CategoryCustomer.Period(at))
}

func TestCategory_IsValid(t *testing.T) {
	assert.True(t, CategoryBill.IsValid())
	assert.False(t, Category("product").IsValid())
}
