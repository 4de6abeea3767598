package router

import (
	"fmt"

	"github.com/forgeledger/backend/internal/infrastructure/config"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/forgeledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EngineConfig selects the global middleware of the engine.
type EngineConfig struct {
	Logger      *zap.Logger
	HTTP        config.HTTPConfig
	ServiceName string
	// Tracing wraps each request in an otelgin server span.
	Tracing bool
	// Extra runs after the built-in chain, e.g. HTTP metrics or profiling labels.
	Extra []gin.HandlerFunc
}

// NewEngine builds a gin engine with the global middleware chain installed.
// Tracing runs before RequestID so the request ID lands on the server span.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	engine.Use(logger.Recovery(cfg.Logger))
	if cfg.Tracing {
		engine.Use(middleware.Tracing(cfg.ServiceName))
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		middleware.Secure(),
		middleware.CORS(cfg.HTTP),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	engine.Use(cfg.Extra...)

	return engine, nil
}
