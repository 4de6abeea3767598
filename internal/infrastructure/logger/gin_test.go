package logger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)
	l := zap.New(core)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(RequestIDKey, "req-42")
		c.Next()
	})
	r.Use(Recovery(l), GinMiddleware(l))
	return r, recorded
}

func TestGinMiddleware_LevelFollowsStatus(t *testing.T) {
	r, recorded := newObservedRouter(t)
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for path, level := range map[string]zapcore.Level{
		"/ok":      zapcore.InfoLevel,
		"/missing": zapcore.WarnLevel,
		"/broken":  zapcore.ErrorLevel,
	} {
		recorded.TakeAll()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))

		entries := recorded.FilterMessage("HTTP request").All()
		require.Len(t, entries, 1, path)
		assert.Equal(t, level, entries[0].Level, path)
		assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	}
}

func TestGinMiddleware_PicksUpScopeFields(t *testing.T) {
	r, recorded := newObservedRouter(t)
	tenantID := uuid.New()
	r.GET("/t/:tenant", func(c *gin.Context) {
		ctx, _ := WithScope(c.Request.Context(), FromContext(c.Request.Context()),
			tenant.TrustedScope(tenantID, uuid.New()))
		c.Request = c.Request.WithContext(ctx)
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/t/acme", nil))

	entries := recorded.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, tenantID.String(), fields["tenant_id"])
	assert.Equal(t, "/t/:tenant", fields["route"])
}

func TestRecovery_ReturnsErrorEnvelope(t *testing.T) {
	r, recorded := newObservedRouter(t)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "req-42", body.Error.RequestID)
	assert.NotContains(t, w.Body.String(), "boom")
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}
