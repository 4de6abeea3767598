package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.CodeValidation, http.StatusBadRequest},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{shared.CodeUnauthorized, http.StatusUnauthorized},
		{shared.CodeForbidden, http.StatusForbidden},
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeAlreadyExists, http.StatusConflict},
		{shared.CodeConflict, http.StatusConflict},
		{shared.CodeInvalidTransition, http.StatusConflict},
		{shared.CodeConcurrencyConflict, http.StatusConflict},
		{shared.CodeDuplicateRequest, http.StatusConflict},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeInternal, http.StatusInternalServerError},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse(shared.NewPaginated([]string{"a", "b"}, 21, 3, 10))

	assert.True(t, resp.Success)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, Pagination{Total: 21, Page: 3, PageSize: 10, TotalPages: 3}, *resp.Pagination)

	empty := NewPaginatedResponse(shared.NewPaginated[string](nil, 0, 1, 20))
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"data":[]`)
}

func TestNewDomainErrorResponse(t *testing.T) {
	err := shared.NewValidationError(
		shared.FieldError{Field: "company_name", Message: "This field is required"},
		shared.FieldError{Field: "credit_limit", Message: "Must be greater than or equal to 0", Value: "-5"},
	)

	resp := NewDomainErrorResponse(err, "req-1")

	raw, mErr := json.Marshal(resp)
	require.NoError(t, mErr)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Request validation failed", body["message"])
	assert.Len(t, body["errors"], 2)
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, shared.CodeValidation, errInfo["code"])
	assert.Equal(t, "req-1", errInfo["request_id"])
	assert.NotContains(t, body, "pagination")
}
