package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling labels CPU samples taken while serving a request with the route
// pattern, method and resource so the profiler UI can slice by endpoint.
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || skipObservability(c.Request.URL.Path) {
			c.Next()
			return
		}
		labels := pyroscope.Labels(
			"route", route,
			"method", c.Request.Method,
			"resource", resourceFromRoute(route),
		)
		pyroscope.TagWrapper(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceFromRoute returns the last static segment of a route pattern:
// "/api/v1/:tenant/invoices/:id/payments" becomes "payments".
func resourceFromRoute(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		p := parts[i]
		if p == "" || strings.HasPrefix(p, ":") || strings.HasPrefix(p, "*") {
			continue
		}
		return p
	}
	return "root"
}
