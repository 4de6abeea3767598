// Package sequence defines the human-readable code families (CUST-001,
// INV-2024-0007, ...) and how they are formatted and parsed. Allocation of the
// next number happens in the persistence layer inside the creating transaction.
package sequence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Category is a per-tenant code family.
type Category string

const (
	CategoryCustomer      Category = "customer"
	CategorySupplier      Category = "supplier"
	CategoryOrder         Category = "order"
	CategoryInvoice       Category = "invoice"
	CategoryBill          Category = "bill"
	CategoryPurchaseOrder Category = "purchase_order"
)

type layout struct {
	prefix string
	width  int
	yearly bool
}

var layouts = map[Category]layout{
	CategoryCustomer:      {prefix: "CUST", width: 3},
	CategorySupplier:      {prefix: "SUP", width: 3},
	CategoryOrder:         {prefix: "ORD", width: 4, yearly: true},
	CategoryInvoice:       {prefix: "INV", width: 4, yearly: true},
	CategoryBill:          {prefix: "BILL", width: 4, yearly: true},
	CategoryPurchaseOrder: {prefix: "PO", width: 4, yearly: true},
}

// IsValid checks if the category is a known code family
func (c Category) IsValid() bool {
	_, ok := layouts[c]
	return ok
}

// Prefix returns the fixed code prefix of the category.
func (c Category) Prefix() string {
	return layouts[c].prefix
}

// Yearly reports whether the counter restarts every calendar year.
func (c Category) Yearly() bool {
	return layouts[c].yearly
}

// Period returns the counter period for a record created at t: the year for
// yearly families, 0 otherwise.
func (c Category) Period(t time.Time) int {
	if c.Yearly() {
		return t.Year()
	}
	return 0
}

// PeriodPrefix is the code prefix shared by every code of one period,
// for example "INV-2024-" or "CUST-".
func (c Category) PeriodPrefix(period int) string {
	l := layouts[c]
	if l.yearly {
		return fmt.Sprintf("%s-%04d-", l.prefix, period)
	}
	return l.prefix + "-"
}

// Format renders the n-th code of a period. Numbers wider than the padding are
// printed in full, so CUST-999 is followed by CUST-1000.
func (c Category) Format(period int, n int64) string {
	return fmt.Sprintf("%s%0*d", c.PeriodPrefix(period), layouts[c].width, n)
}

// Parse extracts the number from a code of the given period. ok is false when
// the code does not belong to the period or has a non-numeric suffix.
func (c Category) Parse(period int, code string) (n int64, ok bool) {
	prefix := c.PeriodPrefix(period)
	if !strings.HasPrefix(code, prefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(code, prefix), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Highest returns the largest number among codes of the period, 0 if none.
func (c Category) Highest(period int, codes []string) int64 {
	var max int64
	for _, code := range codes {
		if n, ok := c.Parse(period, code); ok && n > max {
			max = n
		}
	}
	return max
}
