// Package document implements the transactional documents of a tenant (sales
// orders, invoices, bills and purchase orders) together with their status
// lifecycles and derived monetary totals.
package document

import "github.com/forgeledger/backend/internal/domain/sequence"

// Kind identifies a document family.
type Kind string

const (
	KindOrder         Kind = "ORDER"
	KindInvoice       Kind = "INVOICE"
	KindBill          Kind = "BILL"
	KindPurchaseOrder Kind = "PURCHASE_ORDER"
)

// Kinds lists every document family.
var Kinds = []Kind{KindOrder, KindInvoice, KindBill, KindPurchaseOrder}

// IsValid checks if the kind is a known document family
func (k Kind) IsValid() bool {
	switch k {
	case KindOrder, KindInvoice, KindBill, KindPurchaseOrder:
		return true
	}
	return false
}

// Label is the human name used in messages.
func (k Kind) Label() string {
	switch k {
	case KindOrder:
		return "Order"
	case KindInvoice:
		return "Invoice"
	case KindBill:
		return "Bill"
	case KindPurchaseOrder:
		return "Purchase order"
	}
	return "Document"
}

// Category returns the code family the document number is drawn from.
func (k Kind) Category() sequence.Category {
	switch k {
	case KindOrder:
		return sequence.CategoryOrder
	case KindInvoice:
		return sequence.CategoryInvoice
	case KindBill:
		return sequence.CategoryBill
	case KindPurchaseOrder:
		return sequence.CategoryPurchaseOrder
	}
	return ""
}

// CounterpartyKind tells which party family a document references.
type CounterpartyKind string

const (
	CounterpartyCustomer CounterpartyKind = "customer"
	CounterpartySupplier CounterpartyKind = "supplier"
)

// Counterparty returns the party family of the kind: sales documents
// reference customers, purchasing documents reference suppliers.
func (k Kind) Counterparty() CounterpartyKind {
	if k == KindBill || k == KindPurchaseOrder {
		return CounterpartySupplier
	}
	return CounterpartyCustomer
}

// Payable reports whether the kind tracks payments and a balance due.
func (k Kind) Payable() bool {
	return k == KindInvoice || k == KindBill
}
