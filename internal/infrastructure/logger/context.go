package logger

import (
	"context"

	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	tenantIDKey  contextKey = "tenant_id"
	userIDKey    contextKey = "user_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// WithRequestID records the request ID and returns the enriched logger.
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	l := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, l), l
}

// WithTenantID records the tenant and returns the enriched logger.
func WithTenantID(ctx context.Context, logger *zap.Logger, tenantID uuid.UUID) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, tenantIDKey, tenantID)
	l := logger.With(zap.Stringer("tenant_id", tenantID))
	return WithContext(ctx, l), l
}

// WithUserID records the caller and returns the enriched logger.
func WithUserID(ctx context.Context, logger *zap.Logger, userID uuid.UUID) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, userIDKey, userID)
	l := logger.With(zap.Stringer("user_id", userID))
	return WithContext(ctx, l), l
}

// WithScope records tenant, caller and role of a resolved scope.
func WithScope(ctx context.Context, logger *zap.Logger, scope tenant.Scope) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, tenantIDKey, scope.TenantID())
	ctx = context.WithValue(ctx, userIDKey, scope.ActorID())
	l := logger.With(
		zap.Stringer("tenant_id", scope.TenantID()),
		zap.Stringer("user_id", scope.ActorID()),
		zap.String("role", string(scope.Role())),
	)
	return WithContext(ctx, l), l
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// GetTenantID returns uuid.Nil when no tenant was recorded.
func GetTenantID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(tenantIDKey).(uuid.UUID)
	return id
}

// GetUserID returns uuid.Nil when no caller was recorded.
func GetUserID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(userIDKey).(uuid.UUID)
	return id
}

// GetTraceID returns the active trace ID, or "" outside a sampled span.
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// L returns the context logger with trace_id and span_id of the active span.
// Request, tenant and user fields are already on the stored logger.
//
//	logger.L(ctx).Info("Invoice sent", zap.String("number", inv.Number))
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
