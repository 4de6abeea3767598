package document

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Header is the editable non-line content of a document.
type Header struct {
	CounterpartyID   uuid.UUID
	CounterpartyName string
	LocationID       *uuid.UUID
	IssueDate        time.Time
	DueDate          *time.Time
	Currency         string
	Notes            string
}

// Draft is the full editable content of a document.
type Draft struct {
	Header
	Lines []LineInput
}

// Document is the aggregate shared by every kind. Status changes go through
// Transition and payments through RecordPayment; everything else is only
// editable while the document is DRAFT.
type Document struct {
	shared.TenantAggregateRoot
	Kind   Kind
	Number string
	Status Status
	Header
	Shipping         Shipping
	SourceDocumentID *uuid.UUID
	Lines            []Line
	Payments         []Payment
	TotalAmount      decimal.Decimal
	AmountPaid       decimal.Decimal
	BalanceDue       decimal.Decimal

	linesChanged   bool
	newTransitions []Transition
	newPayments    []Payment
}

// NewDocument validates the draft and creates a DRAFT document without a
// number. Every invalid field is reported at once.
func NewDocument(scope tenant.Scope, kind Kind, draft Draft) (*Document, error) {
	if !kind.IsValid() {
		return nil, shared.NewFieldError("kind", "Unknown document kind", string(kind))
	}
	header, lines, err := validateDraft(draft)
	if err != nil {
		return nil, err
	}
	d := &Document{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(scope.TenantID(), scope.ActorID()),
		Kind:                kind,
		Status:              LifecycleOf(kind).Initial(),
		Header:              header,
		Lines:               lines,
		linesChanged:        true,
	}
	if err := d.recalculate(d.Payments); err != nil {
		return nil, err
	}
	return d, nil
}

// NewInvoiceFromOrder drafts an invoice for a confirmed order, copying its
// counterparty, currency, location and lines.
func NewInvoiceFromOrder(scope tenant.Scope, order *Document, issueDate time.Time, dueDate *time.Time) (*Document, error) {
	if order.Kind != KindOrder {
		return nil, shared.NewFieldError("order_id", "Must reference a sales order", order.ID.String())
	}
	if order.Status == StatusDraft || order.Status == StatusCancelled {
		return nil, shared.NewConflictError(fmt.Sprintf(
			"Order %s is %s; only confirmed orders can be invoiced", order.Number, order.Status))
	}
	inputs := make([]LineInput, len(order.Lines))
	for i, l := range order.Lines {
		inputs[i] = LineInput{
			ProductID:     l.ProductID,
			ItemCode:      l.ItemCode,
			Description:   l.Description,
			Quantity:      l.Quantity,
			UnitOfMeasure: l.UnitOfMeasure,
			UnitPrice:     l.UnitPrice,
		}
	}
	h := order.Header
	h.IssueDate = issueDate
	h.DueDate = dueDate
	h.Notes = fmt.Sprintf("Invoice for order %s", order.Number)

	inv, err := NewDocument(scope, KindInvoice, Draft{Header: h, Lines: inputs})
	if err != nil {
		return nil, err
	}
	src := order.ID
	inv.SourceDocumentID = &src
	return inv, nil
}

func validateDraft(draft Draft) (Header, []Line, error) {
	h := draft.Header
	var errs []shared.FieldError
	add := func(field, msg string, v any) {
		errs = append(errs, shared.FieldError{Field: field, Message: msg, Value: v})
	}

	if h.CounterpartyID == uuid.Nil {
		add("counterparty_id", "This field is required", nil)
	}
	if h.IssueDate.IsZero() {
		h.IssueDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if h.DueDate != nil && h.DueDate.Before(h.IssueDate) {
		add("due_date", "Must not be before the issue date", h.DueDate.Format(time.DateOnly))
	}
	h.Currency = strings.ToUpper(strings.TrimSpace(h.Currency))
	if h.Currency == "" {
		h.Currency = tenant.DefaultCurrency
	}
	if !currencyPattern.MatchString(h.Currency) {
		add("currency", "Must be a three-letter ISO 4217 code", h.Currency)
	}
	h.Notes = strings.TrimSpace(h.Notes)
	h.CounterpartyName = strings.TrimSpace(h.CounterpartyName)

	lines, errs := buildLines(draft.Lines, errs)
	if len(errs) > 0 {
		return Header{}, nil, shared.NewValidationError(errs...)
	}
	return h, lines, nil
}

// Lifecycle returns the transition table of the document's kind.
func (d *Document) Lifecycle() Lifecycle {
	return LifecycleOf(d.Kind)
}

// IsDraft reports whether the document is still in its initial state.
func (d *Document) IsDraft() bool {
	return d.Status == d.Lifecycle().Initial()
}

// AssignNumber sets the sequential document number once.
func (d *Document) AssignNumber(number string) error {
	if d.Number != "" {
		return shared.NewConflictError(fmt.Sprintf("%s number is immutable once issued", d.Kind.Label()))
	}
	d.Number = number
	d.AddDomainEvent(NewCreatedEvent(d))
	return nil
}

// Update replaces header and lines. Only a DRAFT document can be edited.
func (d *Document) Update(draft Draft) error {
	if !d.IsDraft() {
		return shared.NewConflictError(fmt.Sprintf(
			"%s %s is %s; only draft records can be edited, use a status change instead",
			d.Kind.Label(), d.Number, d.Status))
	}
	header, lines, err := validateDraft(draft)
	if err != nil {
		return err
	}
	d.Header = header
	d.Lines = lines
	d.linesChanged = true
	if err := d.recalculate(d.Payments); err != nil {
		return err
	}
	d.Touch()
	return nil
}

// EnsureDeletable fails unless the document is still DRAFT.
func (d *Document) EnsureDeletable() error {
	if !d.IsDraft() {
		return shared.NewConflictError(fmt.Sprintf(
			"%s %s is %s; only draft records may be deleted to preserve the audit trail",
			d.Kind.Label(), d.Number, d.Status))
	}
	return nil
}

// Transition moves the document to req.To if the lifecycle allows it and the
// target's guard holds. On error the document is left unchanged.
func (d *Document) Transition(actor uuid.UUID, req TransitionRequest) error {
	lc := d.Lifecycle()
	if !lc.Has(req.To) {
		return shared.NewFieldError("status",
			fmt.Sprintf("Must be one of: %s", strings.Join(statusNames(lc.States()), " ")), string(req.To))
	}
	if !lc.CanTransition(d.Status, req.To) {
		return shared.NewInvalidTransitionError(strings.ToLower(d.Kind.Label()),
			string(d.Status), string(req.To), statusNames(lc.Allowed(d.Status)))
	}

	reason := strings.TrimSpace(req.Reason)
	var errs []shared.FieldError
	if req.To == StatusCancelled && reason == "" {
		errs = append(errs, shared.FieldError{Field: "reason", Message: "A reason is required to cancel"})
	}
	var shipping Shipping
	if req.Shipping != nil {
		shipping = Shipping{
			Method:         strings.TrimSpace(req.Shipping.Method),
			Carrier:        strings.TrimSpace(req.Shipping.Carrier),
			TrackingNumber: strings.TrimSpace(req.Shipping.TrackingNumber),
		}
		if !shipping.IsZero() && req.To != StatusShipped {
			errs = append(errs, shared.FieldError{Field: "shipping_method", Message: "Shipping details are only accepted when the order ships"})
		}
	}
	if req.Payment != nil {
		switch {
		case !d.Kind.Payable():
			errs = append(errs, shared.FieldError{Field: "payment", Message: "Payments apply to invoices and bills only"})
		case req.To != StatusPaid && req.To != StatusPartiallyPaid:
			errs = append(errs, shared.FieldError{Field: "payment", Message: "A payment can only accompany a move to PAID or PARTIALLY_PAID"})
		}
	}
	if len(errs) > 0 {
		return shared.NewValidationError(errs...)
	}

	meta := map[string]any{}
	payments := d.Payments
	var payment *Payment
	if req.Payment != nil {
		p, err := d.preparePayment(actor, *req.Payment)
		if err != nil {
			return err
		}
		payment = &p
		payments = append(append([]Payment(nil), d.Payments...), p)
		meta["payment_id"] = p.ID.String()
		meta["payment_amount"] = p.Amount.StringFixed(MoneyPlaces)
	}
	totals, err := Calculate(d.Lines, payments)
	if err != nil {
		return err
	}
	switch req.To {
	case StatusPaid:
		if !totals.Balance.IsZero() {
			return shared.NewConflictError(fmt.Sprintf(
				"%s %s cannot be marked PAID while %s %s is still due",
				d.Kind.Label(), d.Number, totals.Balance.StringFixed(MoneyPlaces), d.Currency))
		}
	case StatusPartiallyPaid:
		if !totals.Paid.IsPositive() || totals.Balance.IsZero() {
			return shared.NewConflictError(fmt.Sprintf(
				"%s %s can only be PARTIALLY_PAID with a positive amount paid and a remaining balance",
				d.Kind.Label(), d.Number))
		}
	}

	if payment != nil {
		d.commitPayment(*payment, totals)
	}
	if req.To == StatusShipped && !shipping.IsZero() {
		d.Shipping = shipping
		meta["shipping_method"] = shipping.Method
		meta["shipping_carrier"] = shipping.Carrier
		meta["tracking_number"] = shipping.TrackingNumber
	}
	d.setStatus(actor, req.To, reason, meta)
	return nil
}

// RecordPayment applies a payment to an issued invoice or bill and then
// moves it to PAID or PARTIALLY_PAID through the regular allow-list.
func (d *Document) RecordPayment(actor uuid.UUID, in PaymentInput) (Payment, error) {
	if !d.Kind.Payable() {
		return Payment{}, shared.NewFieldError("payment", "Payments apply to invoices and bills only", string(d.Kind))
	}
	p, err := d.preparePayment(actor, in)
	if err != nil {
		return Payment{}, err
	}
	totals, err := Calculate(d.Lines, append(append([]Payment(nil), d.Payments...), p))
	if err != nil {
		return Payment{}, err
	}
	d.commitPayment(p, totals)

	target := StatusPartiallyPaid
	if totals.Balance.IsZero() {
		target = StatusPaid
	}
	if target != d.Status && CanTransition(d.Kind, d.Status, target) {
		d.setStatus(actor, target, "", map[string]any{
			"payment_id": p.ID.String(),
			"automatic":  true,
		})
	}
	return p, nil
}

func (d *Document) preparePayment(actor uuid.UUID, in PaymentInput) (Payment, error) {
	if !payableStatus(d.Status) {
		return Payment{}, shared.NewDomainError(shared.CodeInvalidTransition, fmt.Sprintf(
			"Payments can only be recorded on an issued and unsettled %s; %s is %s",
			strings.ToLower(d.Kind.Label()), d.Number, d.Status))
	}
	if err := in.validate(); err != nil {
		return Payment{}, err
	}
	p := newPayment(d, actor, in)
	if p.Amount.GreaterThan(d.BalanceDue) {
		return Payment{}, shared.NewFieldError("amount", fmt.Sprintf(
			"Payment of %s exceeds the balance due of %s",
			p.Amount.StringFixed(MoneyPlaces), d.BalanceDue.StringFixed(MoneyPlaces)),
			p.Amount.StringFixed(MoneyPlaces))
	}
	return p, nil
}

func (d *Document) commitPayment(p Payment, totals Totals) {
	d.Payments = append(d.Payments, p)
	d.newPayments = append(d.newPayments, p)
	d.applyTotals(totals)
	d.Touch()
	d.AddDomainEvent(NewPaymentRecordedEvent(d, p))
}

func (d *Document) setStatus(actor uuid.UUID, to Status, reason string, meta map[string]any) {
	from := d.Status
	d.Status = to
	d.Touch()
	d.newTransitions = append(d.newTransitions, Transition{
		ID:         uuid.New(),
		TenantID:   d.TenantID,
		DocumentID: d.ID,
		Kind:       d.Kind,
		From:       from,
		To:         to,
		ActorID:    actor,
		Reason:     reason,
		Metadata:   meta,
		OccurredAt: d.UpdatedAt,
	})
	d.AddDomainEvent(NewStatusChangedEvent(d, from, to, actor))
}

func (d *Document) recalculate(payments []Payment) error {
	totals, err := Calculate(d.Lines, payments)
	if err != nil {
		return err
	}
	d.applyTotals(totals)
	return nil
}

func (d *Document) applyTotals(t Totals) {
	d.TotalAmount = t.Total
	if d.Kind.Payable() {
		d.AmountPaid = t.Paid
		d.BalanceDue = t.Balance
		return
	}
	d.AmountPaid = decimal.Zero
	d.BalanceDue = decimal.Zero
}

// LinesChanged reports whether the lines must be rewritten on save.
func (d *Document) LinesChanged() bool { return d.linesChanged }

// PendingTransitions returns transition records not yet persisted.
func (d *Document) PendingTransitions() []Transition { return d.newTransitions }

// PendingPayments returns payments not yet persisted.
func (d *Document) PendingPayments() []Payment { return d.newPayments }

// MarkPersisted clears the pending state after a successful save.
func (d *Document) MarkPersisted() {
	d.linesChanged = false
	d.newTransitions = nil
	d.newPayments = nil
}
