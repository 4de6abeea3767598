package dto

import (
	"net/http"

	"github.com/forgeledger/backend/internal/domain/shared"
)

// Transport-only error codes. Domain codes live in the shared package.
const (
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeRouteNotFound    = "ROUTE_NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	shared.CodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest:     http.StatusBadRequest,

	// Auth errors
	shared.CodeUnauthorized: http.StatusUnauthorized,
	shared.CodeForbidden:    http.StatusForbidden,

	// Resource errors
	shared.CodeNotFound:      http.StatusNotFound,
	ErrCodeRouteNotFound:     http.StatusNotFound,
	shared.CodeAlreadyExists: http.StatusConflict,

	// State errors -> 409 Conflict
	shared.CodeConflict:            http.StatusConflict,
	shared.CodeInvalidTransition:   http.StatusConflict,
	shared.CodeConcurrencyConflict: http.StatusConflict,
	shared.CodeInvalidState:        http.StatusConflict,
	shared.CodeDuplicateRequest:    http.StatusConflict,

	ErrCodeMethodNotAllowed: http.StatusMethodNotAllowed,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
