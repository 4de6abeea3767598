package logger

import (
	"context"
	"testing"

	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext_DefaultsToNop(t *testing.T) {
	l := FromContext(context.Background())
	assert.NotNil(t, l)
	l.Info("discarded")
}

func TestWithScope_EnrichesLoggerAndContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	tenantID, userID := uuid.New(), uuid.New()
	scope := tenant.TrustedScope(tenantID, userID)

	ctx, _ := WithRequestID(context.Background(), zap.New(core), "req-7")
	ctx, _ = WithScope(ctx, FromContext(ctx), scope)

	L(ctx).Info("Invoice sent")

	entries := recorded.FilterMessage("Invoice sent").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-7", fields["request_id"])
		assert.Equal(t, tenantID.String(), fields["tenant_id"])
		assert.Equal(t, userID.String(), fields["user_id"])
		assert.Equal(t, "OWNER", fields["role"])
	}
	assert.Equal(t, "req-7", GetRequestID(ctx))
	assert.Equal(t, tenantID, GetTenantID(ctx))
	assert.Equal(t, userID, GetUserID(ctx))
}

func TestGetters_EmptyContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Equal(t, uuid.Nil, GetTenantID(ctx))
	assert.Equal(t, uuid.Nil, GetUserID(ctx))
	assert.Empty(t, GetTraceID(ctx))
}

func TestWithTenantAndUserID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	tenantID, userID := uuid.New(), uuid.New()

	ctx, l := WithTenantID(context.Background(), zap.New(core), tenantID)
	ctx, l = WithUserID(ctx, l, userID)
	l.Info("member added")

	assert.Equal(t, tenantID, GetTenantID(ctx))
	assert.Equal(t, userID, GetUserID(ctx))
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, tenantID.String(), fields["tenant_id"])
	assert.Equal(t, userID.String(), fields["user_id"])
}

func TestL_AddsTraceFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(WithContext(context.Background(), zap.New(core)), sc)

	L(ctx).Info("traced")

	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, traceID.String(), fields["trace_id"])
	assert.Equal(t, spanID.String(), fields["span_id"])
	assert.Equal(t, traceID.String(), GetTraceID(ctx))
}
