package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestEndSpan(t *testing.T) {
	rec := withRecorder(t)
	ctx := context.Background()

	_, ok := StartServiceSpan(ctx, "document", "transition", attribute.String("kind", "invoice"))
	EndSpan(ok, nil)

	_, rejected := StartServiceSpan(ctx, "document", "transition")
	EndSpan(rejected, shared.NewInvalidTransitionError("invoice", "SENT", "DRAFT", nil))

	_, failed := StartServiceSpan(ctx, "document", "transition")
	EndSpan(failed, errors.New("connection reset"))

	spans := rec.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "document.transition", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	assert.NotEqual(t, codes.Error, spans[1].Status().Code)
	assert.Contains(t, spans[1].Attributes(), attribute.String("error.code", shared.CodeInvalidTransition))

	assert.Equal(t, codes.Error, spans[2].Status().Code)
	assert.Len(t, spans[2].Events(), 1)
}

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, p.ZapCore())
	assert.NotNil(t, p.Meter())
	assert.NoError(t, p.Shutdown(context.Background()))
}
