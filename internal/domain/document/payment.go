package document

import (
	"strings"
	"time"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a payment was settled.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodUPI          PaymentMethod = "UPI"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is a valid value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque,
		PaymentMethodCard, PaymentMethodUPI, PaymentMethodOther:
		return true
	}
	return false
}

// PaymentInput is a payment or receipt as submitted by the caller.
type PaymentInput struct {
	Amount    decimal.Decimal
	Method    PaymentMethod
	PaidAt    time.Time
	Reference string
}

// Payment is an immutable monetary event against an invoice or bill.
type Payment struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	DocumentID uuid.UUID
	Amount     decimal.Decimal
	Method     PaymentMethod
	PaidAt     time.Time
	Reference  string
	RecordedBy uuid.UUID
	CreatedAt  time.Time
}

func (in PaymentInput) validate() error {
	var errs []shared.FieldError
	if !in.Amount.IsPositive() {
		errs = append(errs, shared.FieldError{Field: "amount", Message: "Must be greater than 0", Value: in.Amount.String()})
	} else if !in.Amount.Equal(in.Amount.Round(MoneyPlaces)) {
		errs = append(errs, shared.FieldError{Field: "amount", Message: "At most 2 decimal places are allowed", Value: in.Amount.String()})
	}
	if in.Method != "" && !in.Method.IsValid() {
		errs = append(errs, shared.FieldError{Field: "method", Message: "Must be one of: CASH BANK_TRANSFER CHEQUE CARD UPI OTHER", Value: string(in.Method)})
	}
	if len(errs) > 0 {
		return shared.NewValidationError(errs...)
	}
	return nil
}

func newPayment(d *Document, actor uuid.UUID, in PaymentInput) Payment {
	now := time.Now()
	method := in.Method
	if method == "" {
		method = PaymentMethodBankTransfer
	}
	paidAt := in.PaidAt
	if paidAt.IsZero() {
		paidAt = now
	}
	return Payment{
		ID:         uuid.New(),
		TenantID:   d.TenantID,
		DocumentID: d.ID,
		Amount:     in.Amount.Round(MoneyPlaces),
		Method:     method,
		PaidAt:     paidAt,
		Reference:  strings.TrimSpace(in.Reference),
		RecordedBy: actor,
		CreatedAt:  now,
	}
}
