package handler

import (
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/interfaces/http/dto"
)

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ListResponse represents a paginated list for OpenAPI documentation
// @Description List response with pagination metadata
type ListResponse[T any] struct {
	Success    bool            `json:"success"`
	Data       []T             `json:"data"`
	Pagination *dto.Pagination `json:"pagination"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response; errors lists every offending field of a validation failure
type ErrorResponse struct {
	Success bool                `json:"success" example:"false"`
	Message string              `json:"message,omitempty"`
	Errors  []shared.FieldError `json:"errors,omitempty"`
	Error   *dto.ErrorInfo      `json:"error,omitempty"`
}

// MessageResponse represents a success response without data
// @Description Success response carrying only a message
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Invoice deleted"`
}
