// Package testutil holds helpers shared by handler tests and the end-to-end
// suites: gin request contexts carrying a resolved scope, decoding of the
// response envelope, and a recorder for published domain events.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/forgeledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestContext wraps a gin context and the recorder it writes to.
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
}

// NewContext builds a context for method and path. A non-nil body is sent
// as JSON; a string or []byte is sent verbatim.
func NewContext(t *testing.T, method, path string, body any) *TestContext {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewReader([]byte(b))
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, reader)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return &TestContext{Context: c, Recorder: w}
}

// SetRequestID sets the request ID the way the RequestID middleware does.
func (tc *TestContext) SetRequestID(id string) *TestContext {
	tc.Context.Set(logger.RequestIDKey, id)
	return tc
}

// SetUserID marks the request as authenticated by userID.
func (tc *TestContext) SetUserID(userID uuid.UUID) *TestContext {
	tc.Context.Set(middleware.UserIDKey, userID)
	return tc
}

// SetScope attaches a resolved tenant scope, and its actor, to the request.
func (tc *TestContext) SetScope(scope tenant.Scope) *TestContext {
	tc.SetUserID(scope.ActorID())
	tc.Context.Request = tc.Context.Request.WithContext(tenant.WithScope(tc.Context.Request.Context(), scope))
	return tc
}

// SetParam sets a path parameter.
func (tc *TestContext) SetParam(key, value string) *TestContext {
	tc.Context.Params = append(tc.Context.Params, gin.Param{Key: key, Value: value})
	return tc
}

// Code returns the written HTTP status.
func (tc *TestContext) Code() int {
	return tc.Recorder.Code
}

// Envelope is the response envelope with Data decoded as T.
type Envelope[T any] struct {
	Success bool                `json:"success"`
	Data    T                   `json:"data"`
	Message string              `json:"message"`
	Errors  []shared.FieldError `json:"errors"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

// ErrorCode returns the error code or "".
func (e Envelope[T]) ErrorCode() string {
	if e.Error == nil {
		return ""
	}
	return e.Error.Code
}

// Fields lists the field names of the validation details.
func (e Envelope[T]) Fields() []string {
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe.Field)
	}
	return out
}

// Decode parses a recorded response body.
func Decode[T any](t *testing.T, w *httptest.ResponseRecorder) Envelope[T] {
	t.Helper()
	var env Envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

// AssertError checks status and error code of a failed response.
func AssertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) Envelope[json.RawMessage] {
	t.Helper()
	assert.Equal(t, status, w.Code, "body: %s", w.Body.String())
	env := Decode[json.RawMessage](t, w)
	assert.False(t, env.Success)
	assert.Equal(t, code, env.ErrorCode())
	return env
}
