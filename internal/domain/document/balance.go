package document

import (
	"fmt"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the precision of stored monetary amounts.
const MoneyPlaces = 2

// LinePlaces is the precision of stored line quantities and unit prices.
const LinePlaces = 4

// LineAmount is quantity × unit price rounded to money precision.
func LineAmount(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(MoneyPlaces)
}

// Totals are the derived monetary fields of a document.
type Totals struct {
	Total   decimal.Decimal
	Paid    decimal.Decimal
	Balance decimal.Decimal
}

// Calculate derives totals from the lines and the recorded payments. The
// balance may never go negative, so overpayment is a validation error.
func Calculate(lines []Line, payments []Payment) (Totals, error) {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineAmount)
	}
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	balance := total.Sub(paid)
	if balance.IsNegative() {
		return Totals{}, shared.NewFieldError("amount",
			fmt.Sprintf("Payments of %s exceed the document total of %s",
				paid.StringFixed(MoneyPlaces), total.StringFixed(MoneyPlaces)),
			paid.StringFixed(MoneyPlaces))
	}
	return Totals{Total: total, Paid: paid, Balance: balance}, nil
}
