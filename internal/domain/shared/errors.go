package shared

import (
	"fmt"
	"strings"
)

// Error codes shared by every bounded context. The transport layer maps them to
// HTTP statuses, so they must stay stable.
const (
	CodeValidation          = "VALIDATION_FAILED"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeForbidden           = "FORBIDDEN"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeInvalidState        = "INVALID_STATE"
	CodeDuplicateRequest    = "DUPLICATE_REQUEST"
)

// FieldError describes a single offending field of an inbound payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// DomainError represents a domain-level error
type DomainError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches on the error code so callers can use errors.Is against the
// package sentinels regardless of the message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError returns a validation error carrying every offending field.
func NewValidationError(details ...FieldError) *DomainError {
	msg := "Request validation failed"
	if len(details) == 1 {
		msg = fmt.Sprintf("%s: %s", details[0].Field, details[0].Message)
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: msg,
		Details: details,
	}
}

// NewFieldError is a shorthand for a single-field validation error.
func NewFieldError(field, message string, value any) *DomainError {
	return NewValidationError(FieldError{Field: field, Message: message, Value: value})
}

// NewNotFoundError is returned both when a record is absent and when it lives in
// another tenant. The two cases are deliberately indistinguishable.
func NewNotFoundError(entity string) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", entity))
}

// NewConflictError states a business reason in plain language.
func NewConflictError(reason string) *DomainError {
	return NewDomainError(CodeConflict, reason)
}

// NewAlreadyExistsError reports a duplicate name or code.
func NewAlreadyExistsError(entity, field, value string) *DomainError {
	return &DomainError{
		Code:    CodeAlreadyExists,
		Message: fmt.Sprintf("%s with %s '%s' already exists", entity, field, value),
		Details: []FieldError{{Field: field, Message: "already exists", Value: value}},
	}
}

// NewInvalidTransitionError names the attempted and the allowed next states.
func NewInvalidTransitionError(entity, from, to string, allowed []string) *DomainError {
	next := "none (terminal state)"
	if len(allowed) > 0 {
		next = strings.Join(allowed, ", ")
	}
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("Cannot move %s from %s to %s; allowed next states: %s", entity, from, to, next))
}

// NewForbiddenError reports a missing role or membership.
func NewForbiddenError(reason string) *DomainError {
	return NewDomainError(CodeForbidden, reason)
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrValidation          = NewDomainError(CodeValidation, "Invalid input provided")
	ErrConflict            = NewDomainError(CodeConflict, "Resource is in conflict with the current state")
	ErrInvalidTransition   = NewDomainError(CodeInvalidTransition, "Status transition not allowed")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden           = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrDuplicateRequest    = NewDomainError(CodeDuplicateRequest, "A request with this idempotency key is already being processed")
)
