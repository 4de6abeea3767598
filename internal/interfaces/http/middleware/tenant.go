package middleware

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TenantParam is the route segment naming the company, by UUID or slug.
const TenantParam = "tenant"

// ScopeResolver authorizes a caller for a tenant reference.
type ScopeResolver interface {
	Resolve(ctx context.Context, actorID uuid.UUID, tenantRef string) (tenant.Scope, error)
}

// TenantScope resolves the :tenant segment for the authenticated caller and
// stores the resulting scope in the request context. It must run after
// Authenticate. Handlers below it never see a request without a scope.
func TenantScope(resolver ScopeResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			abortWithDomainError(c, shared.ErrUnauthorized)
			return
		}

		ctx := c.Request.Context()
		scope, err := resolver.Resolve(ctx, userID, c.Param(TenantParam))
		if err != nil {
			abortWithDomainError(c, err)
			return
		}

		ctx, _ = logger.WithScope(ctx, logger.FromContext(ctx), scope)
		ctx = tenant.WithScope(ctx, scope)
		c.Request = c.Request.WithContext(ctx)
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.String("tenant_id", scope.TenantID().String()),
			attribute.String("tenant_role", string(scope.Role())),
		)
		c.Next()
	}
}
