package document

import "slices"

// Status is a document status. Each Kind uses a subset.
type Status string

const (
	StatusDraft             Status = "DRAFT"
	StatusConfirmed         Status = "CONFIRMED"
	StatusInProduction      Status = "IN_PRODUCTION"
	StatusReadyToShip       Status = "READY_TO_SHIP"
	StatusShipped           Status = "SHIPPED"
	StatusDelivered         Status = "DELIVERED"
	StatusSent              Status = "SENT"
	StatusReceived          Status = "RECEIVED"
	StatusPartiallyPaid     Status = "PARTIALLY_PAID"
	StatusPaid              Status = "PAID"
	StatusOverdue           Status = "OVERDUE"
	StatusPartiallyReceived Status = "PARTIALLY_RECEIVED"
	StatusCancelled         Status = "CANCELLED"
)

// Lifecycle is the static adjacency table of one document kind.
type Lifecycle struct {
	states []Status
	next   map[Status][]Status
}

// Every allow-list lives here and nowhere else.
//
// Invoices and bills reach OVERDUE only once issued: DRAFT is non-terminal
// but cannot fall due, so DRAFT -> OVERDUE is refused. An issued invoice or
// bill may also settle straight to PAID or be CANCELLED before any payment.
var lifecycles = map[Kind]Lifecycle{
	KindOrder: {
		states: []Status{StatusDraft, StatusConfirmed, StatusInProduction, StatusReadyToShip, StatusShipped, StatusDelivered, StatusCancelled},
		next: map[Status][]Status{
			StatusDraft:        {StatusConfirmed, StatusCancelled},
			StatusConfirmed:    {StatusInProduction, StatusCancelled},
			StatusInProduction: {StatusReadyToShip, StatusCancelled},
			StatusReadyToShip:  {StatusShipped},
			StatusShipped:      {StatusDelivered},
		},
	},
	KindInvoice: {
		states: []Status{StatusDraft, StatusSent, StatusPartiallyPaid, StatusPaid, StatusOverdue, StatusCancelled},
		next: map[Status][]Status{
			StatusDraft:         {StatusSent, StatusCancelled},
			StatusSent:          {StatusPartiallyPaid, StatusPaid, StatusOverdue, StatusCancelled},
			StatusPartiallyPaid: {StatusPaid, StatusOverdue},
			StatusOverdue:       {StatusPartiallyPaid, StatusPaid},
		},
	},
	KindBill: {
		states: []Status{StatusDraft, StatusReceived, StatusPartiallyPaid, StatusPaid, StatusOverdue, StatusCancelled},
		next: map[Status][]Status{
			StatusDraft:         {StatusReceived, StatusCancelled},
			StatusReceived:      {StatusPartiallyPaid, StatusPaid, StatusOverdue, StatusCancelled},
			StatusPartiallyPaid: {StatusPaid, StatusOverdue},
			StatusOverdue:       {StatusPartiallyPaid, StatusPaid},
		},
	},
	KindPurchaseOrder: {
		states: []Status{StatusDraft, StatusSent, StatusConfirmed, StatusPartiallyReceived, StatusReceived, StatusCancelled},
		next: map[Status][]Status{
			StatusDraft:             {StatusSent, StatusCancelled},
			StatusSent:              {StatusConfirmed, StatusCancelled},
			StatusConfirmed:         {StatusPartiallyReceived, StatusReceived, StatusCancelled},
			StatusPartiallyReceived: {StatusReceived},
		},
	},
}

// LifecycleOf returns the transition table of kind.
func LifecycleOf(kind Kind) Lifecycle {
	return lifecycles[kind]
}

// CanTransition is the single allow-list lookup used by every caller.
func CanTransition(kind Kind, from, to Status) bool {
	return lifecycles[kind].CanTransition(from, to)
}

// Initial is the state every document is created in.
func (l Lifecycle) Initial() Status { return StatusDraft }

// States returns the statuses of the kind in declaration order.
func (l Lifecycle) States() []Status { return slices.Clone(l.states) }

// Has reports whether s belongs to the kind.
func (l Lifecycle) Has(s Status) bool { return slices.Contains(l.states, s) }

// Allowed returns the statuses reachable from s in one step.
func (l Lifecycle) Allowed(s Status) []Status { return slices.Clone(l.next[s]) }

// CanTransition reports whether to is in the allow-list of from.
func (l Lifecycle) CanTransition(from, to Status) bool {
	return slices.Contains(l.next[from], to)
}

// IsTerminal reports whether s accepts no further transition.
func (l Lifecycle) IsTerminal(s Status) bool {
	return l.Has(s) && len(l.next[s]) == 0
}

// Payable statuses accept payments: the document was issued and is not
// settled or cancelled.
func payableStatus(s Status) bool {
	switch s {
	case StatusSent, StatusReceived, StatusPartiallyPaid, StatusOverdue:
		return true
	}
	return false
}

func statusNames(ss []Status) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}
