package tenant

import (
	"context"
	"fmt"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Scope is the proof that a caller was authorized for one tenant. Repositories
// accept a Scope rather than a raw tenant ID, and a zero Scope is rejected by
// every repository, so an unscoped query cannot be expressed.
type Scope struct {
	tenantID uuid.UUID
	actorID  uuid.UUID
	role     Role
}

// TrustedScope builds a scope for callers that already hold an authorization
// decision outside the request path, such as seeding jobs and tests.
func TrustedScope(tenantID, actorID uuid.UUID) Scope {
	return Scope{tenantID: tenantID, actorID: actorID, role: RoleOwner}
}

func (s Scope) TenantID() uuid.UUID { return s.tenantID }
func (s Scope) ActorID() uuid.UUID  { return s.actorID }
func (s Scope) Role() Role          { return s.role }

// Valid reports whether the scope was produced by the guard.
func (s Scope) Valid() bool {
	return s.tenantID != uuid.Nil
}

// Require fails with a forbidden error when the scope's role lacks action.
func (s Scope) Require(action Action) error {
	if !s.Valid() {
		return shared.NewForbiddenError("No company selected")
	}
	if !s.role.Can(action) {
		return shared.NewForbiddenError(fmt.Sprintf("Role %s is not allowed to %s in this company", s.role, action))
	}
	return nil
}

// String is used in log fields.
func (s Scope) String() string {
	return fmt.Sprintf("tenant=%s actor=%s role=%s", s.tenantID, s.actorID, s.role)
}

type scopeKey struct{}

// WithScope stores the scope in ctx.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFromContext returns the scope stored by WithScope.
func ScopeFromContext(ctx context.Context) (Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(Scope)
	return s, ok && s.Valid()
}
