package document

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
)

// Filter keys understood by List.
const (
	FilterStatus         = "status"
	FilterCounterpartyID = "counterparty_id"
)

// MutateFunc changes a loaded document. Returning an error aborts the
// surrounding transaction.
type MutateFunc func(d *Document) error

// Repository defines the interface for document persistence. Every method
// takes the kind so an invoice id can never be read through the order routes.
type Repository interface {
	// Create allocates the next number for the kind and inserts the document
	// with its lines in one transaction.
	Create(ctx context.Context, scope tenant.Scope, d *Document) error
	// FindByID loads the document with its lines and payments.
	FindByID(ctx context.Context, scope tenant.Scope, kind Kind, id uuid.UUID) (*Document, error)
	List(ctx context.Context, scope tenant.Scope, kind Kind, filter shared.Filter) ([]Document, int64, error)
	// Mutate locks the row, applies fn and persists the result together with
	// pending transitions and payments. The update is conditioned on the
	// version that was read, so a lost race yields CONCURRENCY_CONFLICT.
	Mutate(ctx context.Context, scope tenant.Scope, kind Kind, id uuid.UUID, fn MutateFunc) (*Document, error)
	// Delete removes a DRAFT document and its lines. The draft check runs
	// under the same row lock as the delete.
	Delete(ctx context.Context, scope tenant.Scope, kind Kind, id uuid.UUID) error
	Transitions(ctx context.Context, scope tenant.Scope, kind Kind, id uuid.UUID) ([]Transition, error)
	Payments(ctx context.Context, scope tenant.Scope, kind Kind, id uuid.UUID) ([]Payment, error)
}
