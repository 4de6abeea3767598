package telemetry

import (
	"context"
	"errors"

	"github.com/forgeledger/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartServiceSpan starts an internal span named "<service>.<operation>".
func StartServiceSpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(InstrumentationName).Start(ctx, service+"."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan records err on span and ends it. Domain errors are expected
// outcomes of a request, so they are attached as attributes without marking
// the span failed.
func EndSpan(span trace.Span, err error) {
	defer span.End()
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		span.SetAttributes(attribute.String("error.code", de.Code))
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
