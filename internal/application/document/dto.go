// Package document implements the document use cases shared by orders,
// invoices, bills and purchase orders.
package document

import (
	"time"

	"github.com/forgeledger/backend/internal/domain/document"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineRequest is one line item of a document body
type LineRequest struct {
	ProductID     *uuid.UUID      `json:"product_id"`
	ItemCode      string          `json:"item_code" binding:"max=50"`
	Description   string          `json:"description" binding:"max=500"`
	Quantity      decimal.Decimal `json:"quantity" swaggertype:"string" binding:"decimal_gt0"`
	UnitOfMeasure string          `json:"unit_of_measure" binding:"max=20"`
	UnitPrice     decimal.Decimal `json:"unit_price" swaggertype:"string" binding:"decimal_gte0"`
}

// DocumentRequest is the body of document create and full update. Dates use
// the YYYY-MM-DD form.
type DocumentRequest struct {
	CounterpartyID uuid.UUID     `json:"counterparty_id" binding:"required"`
	LocationID     *uuid.UUID    `json:"location_id"`
	IssueDate      string        `json:"issue_date" binding:"omitempty,datetime=2006-01-02"`
	DueDate        string        `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Currency       string        `json:"currency" binding:"omitempty,currency"`
	Notes          string        `json:"notes" binding:"max=2000"`
	Lines          []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PaymentRequest records money received or paid against an invoice or bill
type PaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" binding:"decimal_gt0"`
	Method    string          `json:"method" binding:"omitempty,oneof=CASH BANK_TRANSFER CHEQUE CARD UPI OTHER"`
	PaidAt    *time.Time      `json:"paid_at"`
	Reference string          `json:"reference" binding:"max=100"`
}

func (r PaymentRequest) input() document.PaymentInput {
	in := document.PaymentInput{
		Amount:    r.Amount,
		Method:    document.PaymentMethod(r.Method),
		Reference: r.Reference,
	}
	if r.PaidAt != nil {
		in.PaidAt = *r.PaidAt
	}
	return in
}

// StatusChangeRequest is the body of PATCH .../status
type StatusChangeRequest struct {
	Status          string          `json:"status" binding:"required"`
	Reason          string          `json:"reason" binding:"max=500"`
	Payment         *PaymentRequest `json:"payment"`
	ShippingMethod  string          `json:"shipping_method" binding:"max=50"`
	ShippingCarrier string          `json:"shipping_carrier" binding:"max=100"`
	TrackingNumber  string          `json:"tracking_number" binding:"max=100"`
}

func (r StatusChangeRequest) transition() document.TransitionRequest {
	req := document.TransitionRequest{
		To:     document.Status(r.Status),
		Reason: r.Reason,
	}
	if r.Payment != nil {
		in := r.Payment.input()
		req.Payment = &in
	}
	if r.ShippingMethod != "" || r.ShippingCarrier != "" || r.TrackingNumber != "" {
		req.Shipping = &document.Shipping{
			Method:         r.ShippingMethod,
			Carrier:        r.ShippingCarrier,
			TrackingNumber: r.TrackingNumber,
		}
	}
	return req
}

// InvoiceFromOrderRequest drafts an invoice from a sales order
type InvoiceFromOrderRequest struct {
	OrderID   uuid.UUID `json:"order_id" binding:"required"`
	IssueDate string    `json:"issue_date" binding:"omitempty,datetime=2006-01-02"`
	DueDate   string    `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

// DocumentListFilter represents filter options for document lists
type DocumentListFilter struct {
	Search         string `form:"search"`
	Status         string `form:"status"`
	CounterpartyID string `form:"counterparty_id" binding:"omitempty,uuid"`
	FromDate       string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate         string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	Limit          int    `form:"limit" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LineResponse represents a line item in API responses
type LineResponse struct {
	LineNumber    int             `json:"line_number"`
	ProductID     *uuid.UUID      `json:"product_id,omitempty"`
	ItemCode      string          `json:"item_code,omitempty"`
	Description   string          `json:"description,omitempty"`
	Quantity      decimal.Decimal `json:"quantity" swaggertype:"string"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	UnitPrice     decimal.Decimal `json:"unit_price" swaggertype:"string"`
	LineAmount    decimal.Decimal `json:"line_amount" swaggertype:"string"`
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID               uuid.UUID       `json:"id"`
	TenantID         uuid.UUID       `json:"tenant_id"`
	Kind             string          `json:"kind"`
	Number           string          `json:"number"`
	Status           string          `json:"status"`
	AllowedStatuses  []string        `json:"allowed_statuses"`
	CounterpartyID   uuid.UUID       `json:"counterparty_id"`
	CounterpartyName string          `json:"counterparty_name"`
	LocationID       *uuid.UUID      `json:"location_id,omitempty"`
	IssueDate        string          `json:"issue_date"`
	DueDate          string          `json:"due_date,omitempty"`
	Currency         string          `json:"currency"`
	Notes            string          `json:"notes,omitempty"`
	ShippingMethod   string          `json:"shipping_method,omitempty"`
	ShippingCarrier  string          `json:"shipping_carrier,omitempty"`
	TrackingNumber   string          `json:"tracking_number,omitempty"`
	SourceDocumentID *uuid.UUID      `json:"source_document_id,omitempty"`
	Lines            []LineResponse  `json:"lines"`
	TotalAmount      decimal.Decimal `json:"total_amount" swaggertype:"string"`
	AmountPaid       decimal.Decimal `json:"amount_paid" swaggertype:"string"`
	BalanceDue       decimal.Decimal `json:"balance_due" swaggertype:"string"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Version          int             `json:"version"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	DocumentID uuid.UUID       `json:"document_id"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"string"`
	Method     string          `json:"method"`
	PaidAt     time.Time       `json:"paid_at"`
	Reference  string          `json:"reference,omitempty"`
	RecordedBy uuid.UUID       `json:"recorded_by"`
	CreatedAt  time.Time       `json:"created_at"`
}

// PaymentResultResponse is returned after recording a payment
type PaymentResultResponse struct {
	Payment  PaymentResponse  `json:"payment"`
	Document DocumentResponse `json:"document"`
}

// TransitionResponse is one entry of a document's status history
type TransitionResponse struct {
	ID         uuid.UUID      `json:"id"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	ActorID    uuid.UUID      `json:"actor_id"`
	Reason     string         `json:"reason,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// ToDocumentResponse converts a domain Document to DocumentResponse
func ToDocumentResponse(d *document.Document) DocumentResponse {
	lines := make([]LineResponse, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = LineResponse{
			LineNumber:    l.LineNumber,
			ProductID:     l.ProductID,
			ItemCode:      l.ItemCode,
			Description:   l.Description,
			Quantity:      l.Quantity,
			UnitOfMeasure: l.UnitOfMeasure,
			UnitPrice:     l.UnitPrice,
			LineAmount:    l.LineAmount,
		}
	}
	allowed := d.Lifecycle().Allowed(d.Status)
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	resp := DocumentResponse{
		ID:               d.ID,
		TenantID:         d.TenantID,
		Kind:             string(d.Kind),
		Number:           d.Number,
		Status:           string(d.Status),
		AllowedStatuses:  names,
		CounterpartyID:   d.CounterpartyID,
		CounterpartyName: d.CounterpartyName,
		LocationID:       d.LocationID,
		IssueDate:        d.IssueDate.Format(time.DateOnly),
		Currency:         d.Currency,
		Notes:            d.Notes,
		ShippingMethod:   d.Shipping.Method,
		ShippingCarrier:  d.Shipping.Carrier,
		TrackingNumber:   d.Shipping.TrackingNumber,
		SourceDocumentID: d.SourceDocumentID,
		Lines:            lines,
		TotalAmount:      d.TotalAmount,
		AmountPaid:       d.AmountPaid,
		BalanceDue:       d.BalanceDue,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		Version:          d.Version,
	}
	if d.DueDate != nil {
		resp.DueDate = d.DueDate.Format(time.DateOnly)
	}
	return resp
}

// ToPaymentResponse converts a domain Payment to PaymentResponse
func ToPaymentResponse(p document.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		DocumentID: p.DocumentID,
		Amount:     p.Amount,
		Method:     string(p.Method),
		PaidAt:     p.PaidAt,
		Reference:  p.Reference,
		RecordedBy: p.RecordedBy,
		CreatedAt:  p.CreatedAt,
	}
}

// ToTransitionResponse converts a domain Transition to TransitionResponse
func ToTransitionResponse(t document.Transition) TransitionResponse {
	return TransitionResponse{
		ID:         t.ID,
		From:       string(t.From),
		To:         string(t.To),
		ActorID:    t.ActorID,
		Reason:     t.Reason,
		Metadata:   t.Metadata,
		OccurredAt: t.OccurredAt,
	}
}
