package router

import (
	"net/http"

	"github.com/forgeledger/backend/internal/application/validation"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/forgeledger/backend/internal/interfaces/http/dto"
	"github.com/forgeledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// RouteRegistrar registers routes directly under the versioned API group.
// Company registration and listing live here.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// ScopedRouteRegistrar registers routes under /:tenant, after the tenant
// scope has been resolved for the caller.
type ScopedRouteRegistrar interface {
	RegisterScopedRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	auth       []gin.HandlerFunc
	scope      []gin.HandlerFunc
	public     []RouteRegistrar
	registrars []RouteRegistrar
	scoped     []ScopedRouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAuthentication sets the middleware run before every API route.
func WithAuthentication(mw ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.auth = append(r.auth, mw...)
	}
}

// WithTenantScope sets the middleware run before every tenant-scoped route,
// after authentication. Idempotency belongs here since it keys on the scope.
func WithTenantScope(mw ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.scope = append(r.scope, mw...)
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RegisterPublic adds a registrar mounted at the engine root with no
// authentication, such as health probes.
func (r *Router) RegisterPublic(registrar RouteRegistrar) *Router {
	r.public = append(r.public, registrar)
	return r
}

// Register adds an authenticated, unscoped registrar.
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// RegisterScoped adds a registrar mounted under /:tenant.
func (r *Router) RegisterScoped(registrar ScopedRouteRegistrar) *Router {
	r.scoped = append(r.scoped, registrar)
	return r
}

// Setup registers all routes with the engine. It also installs the shared
// request validator and the envelope responses for unknown routes.
func (r *Router) Setup() {
	binding.Validator = validation.Default()

	for _, registrar := range r.public {
		registrar.RegisterRoutes(&r.engine.RouterGroup)
	}

	api := r.engine.Group("/api/" + r.apiVersion)
	api.Use(r.auth...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}

	scoped := api.Group("/:" + middleware.TenantParam)
	scoped.Use(r.scope...)
	for _, registrar := range r.scoped {
		registrar.RegisterScopedRoutes(scoped)
	}

	r.engine.HandleMethodNotAllowed = true
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeRouteNotFound,
			"Route "+c.Request.Method+" "+c.Request.URL.Path+" not found", c.GetString(logger.RequestIDKey)))
	})
	r.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(dto.ErrCodeMethodNotAllowed,
			"Method "+c.Request.Method+" is not allowed on this route", c.GetString(logger.RequestIDKey)))
	})
}
