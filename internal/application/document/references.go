package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/forgeledger/backend/internal/domain/catalog"
	"github.com/forgeledger/backend/internal/domain/document"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
)

// counterparty is the snapshot a document keeps of its customer or supplier.
type counterparty struct {
	name   string
	active bool
}

// draftFromRequest resolves every reference of req inside scope and builds
// the domain draft. All unresolved references are reported together.
func (s *DocumentService) draftFromRequest(ctx context.Context, scope tenant.Scope, kind document.Kind, req DocumentRequest) (document.Draft, error) {
	var errs []shared.FieldError
	add := func(field, msg string, v any) {
		errs = append(errs, shared.FieldError{Field: field, Message: msg, Value: v})
	}

	issue, err := parseDate(req.IssueDate)
	if err != nil {
		add("issue_date", "Must be a date in the format 2006-01-02", req.IssueDate)
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		add("due_date", "Must be a date in the format 2006-01-02", req.DueDate)
	}

	draft := document.Draft{
		Header: document.Header{
			CounterpartyID: req.CounterpartyID,
			LocationID:     req.LocationID,
			Currency:       req.Currency,
			Notes:          req.Notes,
		},
		Lines: make([]document.LineInput, len(req.Lines)),
	}
	if issue != nil {
		draft.IssueDate = *issue
	}
	draft.DueDate = due
	for i, l := range req.Lines {
		draft.Lines[i] = document.LineInput{
			ProductID:     l.ProductID,
			ItemCode:      l.ItemCode,
			Description:   l.Description,
			Quantity:      l.Quantity,
			UnitOfMeasure: l.UnitOfMeasure,
			UnitPrice:     l.UnitPrice,
		}
	}

	if req.CounterpartyID != uuid.Nil {
		cp, err := s.lookupCounterparty(ctx, scope, kind.Counterparty(), req.CounterpartyID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			add("counterparty_id", fmt.Sprintf("%s not found", counterpartyLabel(kind)), req.CounterpartyID.String())
		case err != nil:
			return document.Draft{}, err
		case !cp.active:
			add("counterparty_id", fmt.Sprintf("%s is inactive", counterpartyLabel(kind)), req.CounterpartyID.String())
		default:
			draft.CounterpartyName = cp.name
		}
	}

	if req.LocationID != nil {
		loc, err := s.locations.FindByID(ctx, scope, *req.LocationID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			add("location_id", "Location not found", req.LocationID.String())
		case err != nil:
			return document.Draft{}, err
		case !loc.IsActive:
			add("location_id", "Location is inactive", req.LocationID.String())
		}
	}

	fieldErrs, err := s.resolveProducts(ctx, scope, draft.Lines)
	if err != nil {
		return document.Draft{}, err
	}
	errs = append(errs, fieldErrs...)

	if len(errs) > 0 {
		return document.Draft{}, shared.NewValidationError(errs...)
	}
	return draft, nil
}

// resolveProducts checks that every referenced product belongs to the scope
// and fills blank line fields from the product.
func (s *DocumentService) resolveProducts(ctx context.Context, scope tenant.Scope, lines []document.LineInput) ([]shared.FieldError, error) {
	ids := document.ProductIDs(lines)
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.products.FindByIDs(ctx, scope, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	var errs []shared.FieldError
	for i := range lines {
		l := &lines[i]
		if l.ProductID == nil {
			continue
		}
		p, ok := byID[*l.ProductID]
		if !ok {
			errs = append(errs, shared.FieldError{
				Field:   fmt.Sprintf("lines[%d].product_id", i),
				Message: "Product not found",
				Value:   l.ProductID.String(),
			})
			continue
		}
		if l.ItemCode == "" {
			l.ItemCode = p.Code
		}
		if l.Description == "" {
			l.Description = p.Name
		}
		if l.UnitOfMeasure == "" {
			l.UnitOfMeasure = p.UnitOfMeasure
		}
	}
	return errs, nil
}

func (s *DocumentService) lookupCounterparty(ctx context.Context, scope tenant.Scope, kind document.CounterpartyKind, id uuid.UUID) (counterparty, error) {
	if kind == document.CounterpartySupplier {
		sup, err := s.suppliers.FindByID(ctx, scope, id)
		if err != nil {
			return counterparty{}, err
		}
		return counterparty{name: sup.Name, active: sup.IsActive}, nil
	}
	cust, err := s.customers.FindByID(ctx, scope, id)
	if err != nil {
		return counterparty{}, err
	}
	return counterparty{name: cust.Name, active: cust.IsActive}, nil
}

func counterpartyLabel(kind document.Kind) string {
	if kind.Counterparty() == document.CounterpartySupplier {
		return "Supplier"
	}
	return "Customer"
}

// parseDate parses an optional YYYY-MM-DD value as a UTC date.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
