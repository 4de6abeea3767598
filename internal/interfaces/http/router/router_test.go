package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/forgeledger/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type registrarFunc func(rg *gin.RouterGroup)

func (f registrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

type scopedFunc func(rg *gin.RouterGroup)

func (f scopedFunc) RegisterScopedRoutes(rg *gin.RouterGroup) { f(rg) }

func mark(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-"+name, "1")
		c.Next()
	}
}

func newTestRouter(opts ...RouterOption) (*gin.Engine, *Router) {
	engine := gin.New()
	r := NewRouter(engine, append([]RouterOption{
		WithAuthentication(mark("Auth")),
		WithTenantScope(mark("Scope")),
	}, opts...)...)

	r.RegisterPublic(registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	}))
	r.Register(registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/companies", func(c *gin.Context) { c.String(http.StatusOK, "companies") })
	}))
	r.RegisterScoped(scopedFunc(func(rg *gin.RouterGroup) {
		rg.GET("/customers", func(c *gin.Context) { c.String(http.StatusOK, "customers of "+c.Param("tenant")) })
	}))
	r.Setup()
	return engine, r
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
	assert.Empty(t, r.scoped)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup_Groups(t *testing.T) {
	engine, _ := newTestRouter()

	t.Run("public routes skip authentication", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/health")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-Auth"))
	})

	t.Run("api routes are authenticated but unscoped", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/api/v1/companies")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "companies", w.Body.String())
		assert.Equal(t, "1", w.Header().Get("X-Auth"))
		assert.Empty(t, w.Header().Get("X-Scope"))
	})

	t.Run("scoped routes run both chains", func(t *testing.T) {
		w := serve(engine, http.MethodGet, "/api/v1/acme/customers")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "customers of acme", w.Body.String())
		assert.Equal(t, "1", w.Header().Get("X-Auth"))
		assert.Equal(t, "1", w.Header().Get("X-Scope"))
	})

	t.Run("api version prefix", func(t *testing.T) {
		engine, _ := newTestRouter(WithAPIVersion("v2"))
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/companies").Code)
		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/companies").Code)
	})
}

func TestRouterSetup_UnknownRoutes(t *testing.T) {
	engine, _ := newTestRouter()

	w := serve(engine, http.MethodGet, "/api/v1/acme/widgets")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "ROUTE_NOT_FOUND", body["error"].(map[string]any)["code"])

	w = serve(engine, http.MethodDelete, "/api/v1/companies")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "METHOD_NOT_ALLOWED")
}

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine(EngineConfig{
		HTTP: config.HTTPConfig{MaxBodySize: 16},
		Extra: []gin.HandlerFunc{mark("Extra")},
	})
	require.NoError(t, err)
	engine.POST("/echo", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	engine.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "1", w.Header().Get("X-Extra"))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = serve(engine, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestNewEngine_InvalidProxy(t *testing.T) {
	_, err := NewEngine(EngineConfig{HTTP: config.HTTPConfig{TrustedProxies: []string{"not-an-ip"}}})
	assert.Error(t, err)
}
