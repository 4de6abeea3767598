package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// untracedPrefixes are probe and documentation paths kept out of traces.
var untracedPrefixes = []string{"/health", "/ready", "/swagger"}

// Tracing starts a server span per request through otelgin. The span is named
// after the route pattern. Request, user and tenant attributes are added by
// the middleware that learns them.
func Tracing(serviceName string) gin.HandlerFunc {
	base := otelgin.Middleware(serviceName)
	return func(c *gin.Context) {
		if skipObservability(c.Request.URL.Path) {
			c.Next()
			return
		}
		base(c)
	}
}

func skipObservability(path string) bool {
	for _, p := range untracedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
