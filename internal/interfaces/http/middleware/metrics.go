package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// httpDurationBuckets are the latency boundaries in seconds.
var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// HTTPMetrics records request count, latency and in-flight requests on meter.
// Attributes are method, route pattern and status code; tenant IDs are left
// out to keep cardinality bounded.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("http.server.requests: %w", err)
	}
	duration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(httpDurationBuckets...))
	if err != nil {
		return nil, fmt.Errorf("http.server.duration: %w", err)
	}
	active, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, fmt.Errorf("http.server.active_requests: %w", err)
	}

	return func(c *gin.Context) {
		if skipObservability(c.Request.URL.Path) {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		start := time.Now()
		active.Add(ctx, 1)

		c.Next()

		active.Add(ctx, -1)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		base := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		}
		requests.Add(ctx, 1, metric.WithAttributes(append(base, attribute.Int("http.status_code", c.Writer.Status()))...))
		duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(base...))
	}, nil
}
