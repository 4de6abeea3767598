package document

import (
	"fmt"
	"strings"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineInput is the caller-supplied content of one line.
type LineInput struct {
	ProductID     *uuid.UUID
	ItemCode      string
	Description   string
	Quantity      decimal.Decimal
	UnitOfMeasure string
	UnitPrice     decimal.Decimal
}

// Line is a quantity and price pair owned by a document. It has no identity
// outside its document; LineNumber orders it.
type Line struct {
	LineNumber    int
	ProductID     *uuid.UUID
	ItemCode      string
	Description   string
	Quantity      decimal.Decimal
	UnitOfMeasure string
	UnitPrice     decimal.Decimal
	LineAmount    decimal.Decimal
}

// buildLines validates inputs and numbers them from 1. Field paths follow the
// JSON payload, e.g. lines[1].quantity.
func buildLines(inputs []LineInput, errs []shared.FieldError) ([]Line, []shared.FieldError) {
	if len(inputs) == 0 {
		return nil, append(errs, shared.FieldError{Field: "lines", Message: "At least one line item is required"})
	}
	lines := make([]Line, 0, len(inputs))
	for i, in := range inputs {
		path := fmt.Sprintf("lines[%d]", i)
		in.ItemCode = strings.TrimSpace(in.ItemCode)
		in.Description = strings.TrimSpace(in.Description)
		in.UnitOfMeasure = strings.TrimSpace(in.UnitOfMeasure)

		if in.ItemCode == "" && in.Description == "" {
			errs = append(errs, shared.FieldError{Field: path + ".description", Message: "Item code or description is required"})
		}
		if !in.Quantity.IsPositive() {
			errs = append(errs, shared.FieldError{Field: path + ".quantity", Message: "Must be greater than 0", Value: in.Quantity.String()})
		} else if !fitsPlaces(in.Quantity, LinePlaces) {
			errs = append(errs, shared.FieldError{Field: path + ".quantity", Message: "At most 4 decimal places are allowed", Value: in.Quantity.String()})
		}
		if in.UnitPrice.IsNegative() {
			errs = append(errs, shared.FieldError{Field: path + ".unit_price", Message: "Must be greater than or equal to 0", Value: in.UnitPrice.String()})
		} else if !fitsPlaces(in.UnitPrice, LinePlaces) {
			errs = append(errs, shared.FieldError{Field: path + ".unit_price", Message: "At most 4 decimal places are allowed", Value: in.UnitPrice.String()})
		}
		if in.UnitOfMeasure == "" {
			in.UnitOfMeasure = "pcs"
		}
		lines = append(lines, Line{
			LineNumber:    i + 1,
			ProductID:     in.ProductID,
			ItemCode:      in.ItemCode,
			Description:   in.Description,
			Quantity:      in.Quantity,
			UnitOfMeasure: in.UnitOfMeasure,
			UnitPrice:     in.UnitPrice,
			LineAmount:    LineAmount(in.Quantity, in.UnitPrice),
		})
	}
	return lines, errs
}

// ProductIDs returns the distinct product references of the lines.
func ProductIDs(inputs []LineInput) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, in := range inputs {
		if in.ProductID != nil && !seen[*in.ProductID] {
			seen[*in.ProductID] = true
			ids = append(ids, *in.ProductID)
		}
	}
	return ids
}

func fitsPlaces(v decimal.Decimal, places int32) bool {
	return v.Equal(v.Round(places))
}
