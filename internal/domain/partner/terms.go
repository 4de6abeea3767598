// Package partner holds the counterparties of documents: customers on the
// sales side and suppliers on the purchasing side.
package partner

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentTerms is the default settlement term agreed with a party.
type PaymentTerms string

const (
	PaymentTermsNet15        PaymentTerms = "NET15"
	PaymentTermsNet30        PaymentTerms = "NET30"
	PaymentTermsNet45        PaymentTerms = "NET45"
	PaymentTermsNet60        PaymentTerms = "NET60"
	PaymentTermsDueOnReceipt PaymentTerms = "DUE_ON_RECEIPT"
)

// IsValid checks if the payment terms value is known
func (p PaymentTerms) IsValid() bool {
	switch p {
	case PaymentTermsNet15, PaymentTermsNet30, PaymentTermsNet45, PaymentTermsNet60, PaymentTermsDueOnReceipt:
		return true
	}
	return false
}

// Days returns the number of days until payment is due.
func (p PaymentTerms) Days() int {
	switch p {
	case PaymentTermsNet15:
		return 15
	case PaymentTermsNet30:
		return 30
	case PaymentTermsNet45:
		return 45
	case PaymentTermsNet60:
		return 60
	}
	return 0
}

const (
	maxNameLength  = 200
	maxPhoneLength = 50
	maxEmailLength = 200
)

var (
	phonePattern = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// NameKey is the case-insensitive form used for per-tenant name uniqueness.
func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// fieldErrors collects every problem of a payload before failing.
type fieldErrors []shared.FieldError

func (f *fieldErrors) add(field, message string, value any) {
	*f = append(*f, shared.FieldError{Field: field, Message: message, Value: value})
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return shared.NewValidationError(f...)
}

func (f *fieldErrors) checkName(field, name string) {
	switch {
	case strings.TrimSpace(name) == "":
		f.add(field, "This field is required", name)
	case utf8.RuneCountInString(name) > maxNameLength:
		f.add(field, "Must be at most 200 characters", name)
	}
}

func (f *fieldErrors) checkContact(email, phone string) {
	if email != "" && (len(email) > maxEmailLength || !emailPattern.MatchString(email)) {
		f.add("email", "Invalid email format", email)
	}
	if phone != "" && (len(phone) > maxPhoneLength || !phonePattern.MatchString(phone)) {
		f.add("phone", "Invalid phone number format", phone)
	}
}

func (f *fieldErrors) checkTerms(terms PaymentTerms) {
	if !terms.IsValid() {
		f.add("payment_terms", "Must be one of: NET15 NET30 NET45 NET60 DUE_ON_RECEIPT", string(terms))
	}
}

func (f *fieldErrors) checkNonNegative(field string, v decimal.Decimal) {
	if v.IsNegative() {
		f.add(field, "Must be greater than or equal to 0", v.String())
	}
}
