package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/forgeledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader is the client supplied key of a create request.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 255

// Idempotency reserves the Idempotency-Key of POST requests per tenant and
// route for ttl. A replay while the key is reserved is rejected with
// DUPLICATE_REQUEST. A request that fails or panics releases the key so the
// client may retry. Requests without the header pass through. Must run after
// TenantScope.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Idempotency-Key must be at most 255 characters")
			return
		}
		scope, ok := tenant.ScopeFromContext(c.Request.Context())
		if !ok {
			abortWithDomainError(c, shared.NewForbiddenError("No company selected"))
			return
		}

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		storeKey := idempotencyStoreKey(scope.TenantID().String(), c, key)

		reserved, err := store.Reserve(ctx, storeKey, ttl)
		if err != nil {
			// The store being down must not block writes.
			log.Error("idempotency reserve failed", zap.String("idempotency_key", key), zap.Error(err))
			c.Next()
			return
		}
		if !reserved {
			log.Info("duplicate request rejected", zap.String("idempotency_key", key))
			abortWithDomainError(c, shared.ErrDuplicateRequest)
			return
		}

		completed := false
		defer func() {
			if completed && c.Writer.Status() < http.StatusBadRequest {
				return
			}
			if err := store.Release(context.WithoutCancel(ctx), storeKey); err != nil {
				log.Warn("idempotency release failed", zap.String("idempotency_key", key), zap.Error(err))
			}
		}()
		c.Next()
		completed = true
	}
}

// idempotencyStoreKey is "<tenant>:<method> <route>:<key>".
func idempotencyStoreKey(tenantID string, c *gin.Context, key string) string {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	return tenantID + ":" + c.Request.Method + " " + route + ":" + key
}
