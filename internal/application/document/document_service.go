package document

import (
	"context"
	"errors"
	"strings"

	appevent "github.com/forgeledger/backend/internal/application/event"
	"github.com/forgeledger/backend/internal/domain/catalog"
	"github.com/forgeledger/backend/internal/domain/document"
	"github.com/forgeledger/backend/internal/domain/partner"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/forgeledger/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DocumentService runs the document lifecycle for every kind. The kind is
// passed on each call so one instance serves all four route groups.
type DocumentService struct {
	documents document.Repository
	customers partner.CustomerRepository
	suppliers partner.SupplierRepository
	products  catalog.ProductRepository
	locations tenant.LocationRepository
	events    *appevent.Dispatcher
}

// Deps groups the collaborators of DocumentService
type Deps struct {
	Documents document.Repository
	Customers partner.CustomerRepository
	Suppliers partner.SupplierRepository
	Products  catalog.ProductRepository
	Locations tenant.LocationRepository
	Events    *appevent.Dispatcher
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(d Deps) *DocumentService {
	return &DocumentService{
		documents: d.Documents,
		customers: d.Customers,
		suppliers: d.Suppliers,
		products:  d.Products,
		locations: d.Locations,
		events:    d.Events,
	}
}

// Create validates the body, resolves its references and stores a DRAFT
// document under the next number of its kind.
func (s *DocumentService) Create(ctx context.Context, scope tenant.Scope, kind document.Kind, req DocumentRequest) (_ *DocumentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "create",
		attribute.String("kind", string(kind)))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := scope.Require(tenant.ActionWrite); err != nil {
		return nil, err
	}
	draft, err := s.draftFromRequest(ctx, scope, kind, req)
	if err != nil {
		return nil, err
	}
	doc, err := document.NewDocument(scope, kind, draft)
	if err != nil {
		return nil, err
	}
	if err := s.documents.Create(ctx, scope, doc); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("document created",
		zap.String("kind", string(kind)),
		zap.String("document_id", doc.ID.String()),
		zap.String("number", doc.Number),
		zap.String("total_amount", doc.TotalAmount.StringFixed(document.MoneyPlaces)),
	)
	s.events.Dispatch(ctx, doc)

	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// CreateInvoiceFromOrder drafts an invoice that copies a confirmed order
func (s *DocumentService) CreateInvoiceFromOrder(ctx context.Context, scope tenant.Scope, req InvoiceFromOrderRequest) (_ *DocumentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "invoice_from_order",
		attribute.String("order_id", req.OrderID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := scope.Require(tenant.ActionWrite); err != nil {
		return nil, err
	}
	issue, err := parseDate(req.IssueDate)
	if err != nil {
		return nil, shared.NewFieldError("issue_date", "Must be a date in the format 2006-01-02", req.IssueDate)
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return nil, shared.NewFieldError("due_date", "Must be a date in the format 2006-01-02", req.DueDate)
	}

	order, err := s.documents.FindByID(ctx, scope, document.KindOrder, req.OrderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewFieldError("order_id", "Order not found", req.OrderID.String())
		}
		return nil, err
	}
	issueDate := order.IssueDate
	if issue != nil {
		issueDate = *issue
	}
	inv, err := document.NewInvoiceFromOrder(scope, order, issueDate, due)
	if err != nil {
		return nil, err
	}
	if err := s.documents.Create(ctx, scope, inv); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("invoice created from order",
		zap.String("order_number", order.Number),
		zap.String("invoice_number", inv.Number),
		zap.String("document_id", inv.ID.String()),
	)
	s.events.Dispatch(ctx, inv)

	resp := ToDocumentResponse(inv)
	return &resp, nil
}

// GetByID retrieves one document of the given kind
func (s *DocumentService) GetByID(ctx context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID) (*DocumentResponse, error) {
	if err := scope.Require(tenant.ActionRead); err != nil {
		return nil, err
	}
	doc, err := s.documents.FindByID(ctx, scope, kind, id)
	if err != nil {
		return nil, err
	}
	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// List retrieves one page of documents of the given kind
func (s *DocumentService) List(ctx context.Context, scope tenant.Scope, kind document.Kind, filter DocumentListFilter) (*shared.Paginated[DocumentResponse], error) {
	if err := scope.Require(tenant.ActionRead); err != nil {
		return nil, err
	}
	f := shared.DefaultFilter()
	f.Search = strings.TrimSpace(filter.Search)
	f.Page, f.PageSize = filter.Page, filter.Limit
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		status := document.Status(strings.ToUpper(filter.Status))
		if lc := document.LifecycleOf(kind); !lc.Has(status) {
			return nil, shared.NewFieldError("status", "Unknown status for this document kind", filter.Status)
		}
		f.Filters[document.FilterStatus] = string(status)
	}
	if filter.CounterpartyID != "" {
		id, err := uuid.Parse(filter.CounterpartyID)
		if err != nil {
			return nil, shared.NewFieldError("counterparty_id", "Invalid UUID format", filter.CounterpartyID)
		}
		f.Filters[document.FilterCounterpartyID] = id
	}
	var err error
	if f.FromDate, err = parseDate(filter.FromDate); err != nil {
		return nil, shared.NewFieldError("from_date", "Must be a date in the format 2006-01-02", filter.FromDate)
	}
	if f.ToDate, err = parseDate(filter.ToDate); err != nil {
		return nil, shared.NewFieldError("to_date", "Must be a date in the format 2006-01-02", filter.ToDate)
	}
	if f.FromDate != nil && f.ToDate != nil && f.ToDate.Before(*f.FromDate) {
		return nil, shared.NewFieldError("to_date", "Must not be before from_date", filter.ToDate)
	}
	f = f.Normalize()

	docs, total, err := s.documents.List(ctx, scope, kind, f)
	if err != nil {
		return nil, err
	}
	items := make([]DocumentResponse, len(docs))
	for i := range docs {
		items[i] = ToDocumentResponse(&docs[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update replaces header and lines of a DRAFT document
func (s *DocumentService) Update(ctx context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID, req DocumentRequest) (_ *DocumentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "update",
		attribute.String("kind", string(kind)))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := scope.Require(tenant.ActionWrite); err != nil {
		return nil, err
	}
	draft, err := s.draftFromRequest(ctx, scope, kind, req)
	if err != nil {
		return nil, err
	}
	doc, err := s.documents.Mutate(ctx, scope, kind, id, func(d *document.Document) error {
		return d.Update(draft)
	})
	if err != nil {
		return nil, err
	}
	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// Delete hard-deletes a DRAFT document
func (s *DocumentService) Delete(ctx context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "delete",
		attribute.String("kind", string(kind)))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := scope.Require(tenant.ActionDelete); err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, scope, kind, id); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("document deleted",
		zap.String("kind", string(kind)),
		zap.String("document_id", id.String()),
	)
	return nil
}

// Transition moves a document to the requested status. A rejected change
// leaves the stored document untouched.
func (s *DocumentService) Transition(ctx context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID, req StatusChangeRequest) (_ *DocumentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "transition",
		attribute.String("kind", string(kind)),
		attribute.String("to", req.Status))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := scope.Require(tenant.ActionWrite); err != nil {
		return nil, err
	}
	tr := req.transition()
	tr.To = document.Status(strings.ToUpper(strings.TrimSpace(string(tr.To))))

	var from document.Status
	doc, err := s.documents.Mutate(ctx, scope, kind, id, func(d *document.Document) error {
		from = d.Status
		return d.Transition(scope.ActorID(), tr)
	})
	log := logger.FromContext(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidTransition) {
			log.Warn("status change rejected",
				zap.String("kind", string(kind)),
				zap.String("document_id", id.String()),
				zap.String("from", string(from)),
				zap.String("to", string(tr.To)),
			)
		}
		return nil, err
	}

	log.Info("document status changed",
		zap.String("kind", string(kind)),
		zap.String("number", doc.Number),
		zap.String("from", string(from)),
		zap.String("to", string(doc.Status)),
	)
	s.events.Dispatch(ctx, doc)

	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// RecordPayment applies a payment to an invoice or bill and advances its
// status to PARTIALLY_PAID or PAID.
func (s *DocumentService) RecordPayment(ctx context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID, req PaymentRequest) (_ *PaymentResultResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "record_payment",
		attribute.String("kind", string(kind)))
	defer func() { telemetry.EndSpan(span, err) }()

	if err := scope.Require(tenant.ActionWrite); err != nil {
		return nil, err
	}
	if !kind.Payable() {
		return nil, shared.NewFieldError("payment", "Payments apply to invoices and bills only", string(kind))
	}
	var payment document.Payment
	doc, err := s.documents.Mutate(ctx, scope, kind, id, func(d *document.Document) error {
		p, err := d.RecordPayment(scope.ActorID(), req.input())
		payment = p
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("payment recorded",
		zap.String("kind", string(kind)),
		zap.String("number", doc.Number),
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.Amount.StringFixed(document.MoneyPlaces)),
		zap.String("balance_due", doc.BalanceDue.StringFixed(document.MoneyPlaces)),
		zap.String("status", string(doc.Status)),
	)
	s.events.Dispatch(ctx, doc)

	return &PaymentResultResponse{
		Payment:  ToPaymentResponse(payment),
		Document: ToDocumentResponse(doc),
	}, nil
}

// Transitions returns the status history of a document, oldest first
func (s *DocumentService) Transitions(ctx context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID) ([]TransitionResponse, error) {
	if err := scope.Require(tenant.ActionRead); err != nil {
		return nil, err
	}
	history, err := s.documents.Transitions(ctx, scope, kind, id)
	if err != nil {
		return nil, err
	}
	out := make([]TransitionResponse, len(history))
	for i, t := range history {
		out[i] = ToTransitionResponse(t)
	}
	return out, nil
}

// Payments returns the payments recorded against an invoice or bill
func (s *DocumentService) Payments(ctx context.Context, scope tenant.Scope, kind document.Kind, id uuid.UUID) ([]PaymentResponse, error) {
	if err := scope.Require(tenant.ActionRead); err != nil {
		return nil, err
	}
	payments, err := s.documents.Payments(ctx, scope, kind, id)
	if err != nil {
		return nil, err
	}
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = ToPaymentResponse(p)
	}
	return out, nil
}
