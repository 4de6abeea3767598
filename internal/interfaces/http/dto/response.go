package dto

import "github.com/forgeledger/backend/internal/domain/shared"

// Response is the envelope every endpoint answers with.
type Response struct {
	Success    bool                `json:"success"`
	Data       any                 `json:"data,omitempty"`
	Message    string              `json:"message,omitempty"`
	Errors     []shared.FieldError `json:"errors,omitempty"`
	Error      *ErrorInfo          `json:"error,omitempty"`
	Pagination *Pagination         `json:"pagination,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string `json:"code" example:"NOT_FOUND"`
	Message   string `json:"message" example:"Customer not found"`
	RequestID string `json:"request_id,omitempty"`
}

// Pagination represents pagination metadata of a list response
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewMessageResponse creates a success response carrying only a message
func NewMessageResponse(message string) Response {
	return Response{
		Success: true,
		Message: message,
	}
}

// NewPaginatedResponse unwraps a page into data + pagination.
func NewPaginatedResponse[T any](page shared.Paginated[T]) Response {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return Response{
		Success: true,
		Data:    items,
		Pagination: &Pagination{
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success: false,
		Message: message,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// NewDomainErrorResponse renders a domain error, field details included.
func NewDomainErrorResponse(err *shared.DomainError, requestID string) Response {
	resp := NewErrorResponse(err.Code, err.Message, requestID)
	resp.Errors = err.Details
	return resp
}
