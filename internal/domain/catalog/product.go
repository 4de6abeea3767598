// Package catalog holds the tenant's sellable and stockable items.
package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/shopspring/decimal"
)

const (
	maxCodeLength = 50
	maxNameLength = 200
	maxUnitLength = 20
)

// ProductDetails is the caller-editable part of a product.
type ProductDetails struct {
	Name          string
	Description   string
	UnitOfMeasure string
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	ReorderLevel  decimal.Decimal
}

func (d ProductDetails) normalized() ProductDetails {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.UnitOfMeasure = strings.TrimSpace(d.UnitOfMeasure)
	return d
}

func (d ProductDetails) validate(details []shared.FieldError) []shared.FieldError {
	add := func(field, msg string, v any) {
		details = append(details, shared.FieldError{Field: field, Message: msg, Value: v})
	}
	switch {
	case d.Name == "":
		add("name", "This field is required", d.Name)
	case utf8.RuneCountInString(d.Name) > maxNameLength:
		add("name", fmt.Sprintf("Must be at most %d characters", maxNameLength), d.Name)
	}
	switch {
	case d.UnitOfMeasure == "":
		add("unit_of_measure", "This field is required", d.UnitOfMeasure)
	case len(d.UnitOfMeasure) > maxUnitLength:
		add("unit_of_measure", fmt.Sprintf("Must be at most %d characters", maxUnitLength), d.UnitOfMeasure)
	}
	for field, v := range map[string]decimal.Decimal{
		"cost_price":    d.CostPrice,
		"selling_price": d.SellingPrice,
		"reorder_level": d.ReorderLevel,
	} {
		if v.IsNegative() {
			add(field, "Must be greater than or equal to 0", v.String())
		}
	}
	return details
}

// Product is a sellable item. Stock never goes negative.
type Product struct {
	shared.TenantAggregateRoot
	Code string
	ProductDetails
	StockQuantity decimal.Decimal
	IsActive      bool
}

// NewProduct creates an active product. The code is supplied by the caller
// and stored upper-cased.
func NewProduct(scope tenant.Scope, code string, details ProductDetails, openingStock decimal.Decimal) (*Product, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	details = details.normalized()

	var errs []shared.FieldError
	if msg := validateProductCode(code); msg != "" {
		errs = append(errs, shared.FieldError{Field: "code", Message: msg, Value: code})
	}
	errs = details.validate(errs)
	if openingStock.IsNegative() {
		errs = append(errs, shared.FieldError{Field: "stock_quantity", Message: "Must be greater than or equal to 0", Value: openingStock.String()})
	}
	if len(errs) > 0 {
		return nil, shared.NewValidationError(errs...)
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(scope.TenantID(), scope.ActorID()),
		Code:                code,
		ProductDetails:      details,
		StockQuantity:       openingStock,
		IsActive:            true,
	}, nil
}

// NameKey returns the case-insensitive uniqueness key of the name.
func (p *Product) NameKey() string {
	return NameKey(p.Name)
}

// NameKey lower-cases name and collapses its whitespace.
func NameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Update replaces the details of an active product.
func (p *Product) Update(details ProductDetails) error {
	if !p.IsActive {
		return shared.NewConflictError("Inactive products cannot be modified; activate the product first")
	}
	details = details.normalized()
	if errs := details.validate(nil); len(errs) > 0 {
		return shared.NewValidationError(errs...)
	}
	p.ProductDetails = details
	p.Touch()
	return nil
}

// AdjustStock applies a signed delta to the stock quantity.
func (p *Product) AdjustStock(delta decimal.Decimal) error {
	if delta.IsZero() {
		return shared.NewFieldError("delta", "Must not be zero", delta.String())
	}
	next := p.StockQuantity.Add(delta)
	if next.IsNegative() {
		return shared.NewConflictError(fmt.Sprintf(
			"Insufficient stock for %s: on hand %s, requested change %s", p.Code, p.StockQuantity, delta))
	}
	p.StockQuantity = next
	p.Touch()
	return nil
}

// BelowReorderLevel reports whether stock has fallen to the reorder level.
func (p *Product) BelowReorderLevel() bool {
	return p.ReorderLevel.IsPositive() && p.StockQuantity.LessThanOrEqual(p.ReorderLevel)
}

// Deactivate soft-deletes the product.
func (p *Product) Deactivate() error {
	if !p.IsActive {
		return shared.NewConflictError("Product is already inactive")
	}
	p.IsActive = false
	p.Touch()
	return nil
}

// Activate restores a soft-deleted product.
func (p *Product) Activate() error {
	if p.IsActive {
		return shared.NewConflictError("Product is already active")
	}
	p.IsActive = true
	p.Touch()
	return nil
}

// validateProductCode returns a message when code is not a valid SKU.
func validateProductCode(code string) string {
	if code == "" {
		return "This field is required"
	}
	if len(code) > maxCodeLength {
		return fmt.Sprintf("Must be at most %d characters", maxCodeLength)
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return "Can only contain letters, numbers, underscores, and hyphens"
		}
	}
	return ""
}
