package models

import (
	"encoding/json"
	"time"

	"github.com/forgeledger/backend/internal/domain/document"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DocumentModel is the persistence model shared by orders, invoices, bills
// and purchase orders. Lines and payments live in their own tables and are
// loaded explicitly.
type DocumentModel struct {
	TenantAggregateModel
	Kind             document.Kind   `gorm:"type:varchar(20);not null"`
	Number           string          `gorm:"type:varchar(30);not null"`
	Status           document.Status `gorm:"type:varchar(30);not null"`
	CounterpartyID   uuid.UUID       `gorm:"type:uuid;not null"`
	CounterpartyName string          `gorm:"type:varchar(200);not null"`
	LocationID       *uuid.UUID      `gorm:"type:uuid"`
	IssueDate        time.Time       `gorm:"type:date;not null"`
	DueDate          *time.Time      `gorm:"type:date"`
	Currency         string          `gorm:"type:varchar(3);not null"`
	Notes            string          `gorm:"type:text"`
	ShippingMethod   string          `gorm:"type:varchar(100)"`
	ShippingCarrier  string          `gorm:"type:varchar(100)"`
	TrackingNumber   string          `gorm:"type:varchar(100)"`
	SourceDocumentID *uuid.UUID      `gorm:"type:uuid"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AmountPaid       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	BalanceDue       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the model plus its child rows into a domain Document.
func (m *DocumentModel) ToDomain(lines []DocumentLineModel, payments []PaymentModel) *document.Document {
	d := &document.Document{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Kind:                m.Kind,
		Number:              m.Number,
		Status:              m.Status,
		Header: document.Header{
			CounterpartyID:   m.CounterpartyID,
			CounterpartyName: m.CounterpartyName,
			LocationID:       m.LocationID,
			IssueDate:        m.IssueDate,
			DueDate:          m.DueDate,
			Currency:         m.Currency,
			Notes:            m.Notes,
		},
		Shipping: document.Shipping{
			Method:         m.ShippingMethod,
			Carrier:        m.ShippingCarrier,
			TrackingNumber: m.TrackingNumber,
		},
		SourceDocumentID: m.SourceDocumentID,
		TotalAmount:      m.TotalAmount,
		AmountPaid:       m.AmountPaid,
		BalanceDue:       m.BalanceDue,
	}
	d.Lines = make([]document.Line, len(lines))
	for i := range lines {
		d.Lines[i] = lines[i].ToDomain()
	}
	d.Payments = make([]document.Payment, len(payments))
	for i := range payments {
		d.Payments[i] = payments[i].ToDomain()
	}
	return d
}

// FromDomain populates the persistence model from a domain Document.
func (m *DocumentModel) FromDomain(d *document.Document) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.Kind = d.Kind
	m.Number = d.Number
	m.Status = d.Status
	m.CounterpartyID = d.CounterpartyID
	m.CounterpartyName = d.CounterpartyName
	m.LocationID = d.LocationID
	m.IssueDate = d.IssueDate
	m.DueDate = d.DueDate
	m.Currency = d.Currency
	m.Notes = d.Notes
	m.ShippingMethod = d.Shipping.Method
	m.ShippingCarrier = d.Shipping.Carrier
	m.TrackingNumber = d.Shipping.TrackingNumber
	m.SourceDocumentID = d.SourceDocumentID
	m.TotalAmount = d.TotalAmount
	m.AmountPaid = d.AmountPaid
	m.BalanceDue = d.BalanceDue
}

// DocumentModelFromDomain creates a new persistence model from a domain Document.
func DocumentModelFromDomain(d *document.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(d)
	return m
}

// DocumentLineModel is one line item. Lines have no identity of their own;
// (document_id, line_number) is the key.
type DocumentLineModel struct {
	DocumentID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	LineNumber    int             `gorm:"primaryKey;autoIncrement:false"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID     *uuid.UUID      `gorm:"type:uuid"`
	ItemCode      string          `gorm:"type:varchar(50)"`
	Description   string          `gorm:"type:varchar(500)"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitOfMeasure string          `gorm:"type:varchar(20);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (DocumentLineModel) TableName() string {
	return "document_lines"
}

// ToDomain converts the persistence model to a domain Line.
func (m *DocumentLineModel) ToDomain() document.Line {
	return document.Line{
		LineNumber:    m.LineNumber,
		ProductID:     m.ProductID,
		ItemCode:      m.ItemCode,
		Description:   m.Description,
		Quantity:      m.Quantity,
		UnitOfMeasure: m.UnitOfMeasure,
		UnitPrice:     m.UnitPrice,
		LineAmount:    m.LineAmount,
	}
}

// DocumentLineModelsFromDomain maps every line of d.
func DocumentLineModelsFromDomain(d *document.Document) []DocumentLineModel {
	out := make([]DocumentLineModel, len(d.Lines))
	for i, l := range d.Lines {
		out[i] = DocumentLineModel{
			DocumentID:    d.ID,
			LineNumber:    l.LineNumber,
			TenantID:      d.TenantID,
			ProductID:     l.ProductID,
			ItemCode:      l.ItemCode,
			Description:   l.Description,
			Quantity:      l.Quantity,
			UnitOfMeasure: l.UnitOfMeasure,
			UnitPrice:     l.UnitPrice,
			LineAmount:    l.LineAmount,
		}
	}
	return out
}

// PaymentModel is an immutable payment or receipt against an invoice or bill.
type PaymentModel struct {
	ID         uuid.UUID              `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID              `gorm:"type:uuid;not null"`
	DocumentID uuid.UUID              `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Method     document.PaymentMethod `gorm:"type:varchar(20);not null"`
	PaidAt     time.Time              `gorm:"not null"`
	Reference  string                 `gorm:"type:varchar(100)"`
	RecordedBy uuid.UUID              `gorm:"type:uuid;not null"`
	CreatedAt  time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "document_payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() document.Payment {
	return document.Payment{
		ID:         m.ID,
		TenantID:   m.TenantID,
		DocumentID: m.DocumentID,
		Amount:     m.Amount,
		Method:     m.Method,
		PaidAt:     m.PaidAt,
		Reference:  m.Reference,
		RecordedBy: m.RecordedBy,
		CreatedAt:  m.CreatedAt,
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p document.Payment) *PaymentModel {
	return &PaymentModel{
		ID:         p.ID,
		TenantID:   p.TenantID,
		DocumentID: p.DocumentID,
		Amount:     p.Amount,
		Method:     p.Method,
		PaidAt:     p.PaidAt,
		Reference:  p.Reference,
		RecordedBy: p.RecordedBy,
		CreatedAt:  p.CreatedAt,
	}
}

// TransitionModel is the append-only audit row of a status change. Metadata
// holds the side-effect fields (payment, shipping) as JSON.
type TransitionModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID       `gorm:"type:uuid;not null"`
	DocumentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind       document.Kind   `gorm:"type:varchar(20);not null"`
	FromStatus document.Status `gorm:"type:varchar(30);not null"`
	ToStatus   document.Status `gorm:"type:varchar(30);not null"`
	ActorID    uuid.UUID       `gorm:"type:uuid;not null"`
	Reason     string          `gorm:"type:text"`
	Metadata   datatypes.JSON
	OccurredAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TransitionModel) TableName() string {
	return "document_transitions"
}

// ToDomain converts the persistence model to a domain Transition.
func (m *TransitionModel) ToDomain() document.Transition {
	t := document.Transition{
		ID:         m.ID,
		TenantID:   m.TenantID,
		DocumentID: m.DocumentID,
		Kind:       m.Kind,
		From:       m.FromStatus,
		To:         m.ToStatus,
		ActorID:    m.ActorID,
		Reason:     m.Reason,
		OccurredAt: m.OccurredAt,
	}
	if len(m.Metadata) > 0 {
		// A malformed blob is reported as empty metadata rather than failing the read.
		_ = json.Unmarshal(m.Metadata, &t.Metadata)
	}
	return t
}

// TransitionModelFromDomain creates a new persistence model from a domain Transition.
func TransitionModelFromDomain(t document.Transition) (*TransitionModel, error) {
	m := &TransitionModel{
		ID:         t.ID,
		TenantID:   t.TenantID,
		DocumentID: t.DocumentID,
		Kind:       t.Kind,
		FromStatus: t.From,
		ToStatus:   t.To,
		ActorID:    t.ActorID,
		Reason:     t.Reason,
		OccurredAt: t.OccurredAt,
	}
	if len(t.Metadata) > 0 {
		raw, err := json.Marshal(t.Metadata)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_METADATA", "Transition metadata is not serializable")
		}
		m.Metadata = datatypes.JSON(raw)
	}
	return m, nil
}
