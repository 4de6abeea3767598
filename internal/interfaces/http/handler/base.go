// Package handler holds the gin handlers of the REST API. Handlers bind and
// validate the payload, take the tenant scope resolved by the middleware and
// delegate to the application services.
package handler

import (
	"errors"
	"net/http"

	"github.com/forgeledger/backend/internal/application/validation"
	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/domain/tenant"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/forgeledger/backend/internal/interfaces/http/dto"
	"github.com/forgeledger/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return c.GetString(logger.RequestIDKey)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Message sends a 200 response carrying only a message
func (h *BaseHandler) Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.NewMessageResponse(message))
}

// Error sends an error response with an explicit status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponse(code, message, getRequestID(c)))
}

// HandleError converts err to the error envelope. Domain errors keep their
// code and field details; anything else is logged and answered with a
// generic 500 so internals never leak.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.NewDomainErrorResponse(domainErr, getRequestID(c)))
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context()).Error("request failed", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// BindJSON decodes and validates the body into obj. On failure the error
// response is already written and false is returned.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
			return false
		}
		h.HandleError(c, validation.Translate(err))
		return false
	}
	return true
}

// BindQuery decodes and validates query parameters into obj.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.HandleError(c, validation.Translate(err))
		return false
	}
	return true
}

// Scope returns the tenant scope resolved by the TenantScope middleware.
func (h *BaseHandler) Scope(c *gin.Context) (tenant.Scope, bool) {
	s, ok := tenant.ScopeFromContext(c.Request.Context())
	if !ok {
		h.HandleError(c, shared.NewForbiddenError("No company selected"))
		return tenant.Scope{}, false
	}
	return s, true
}

// ActorID returns the authenticated caller.
func (h *BaseHandler) ActorID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		h.HandleError(c, shared.ErrUnauthorized)
		return uuid.Nil, false
	}
	return id, true
}

// PathID parses the named path parameter as a UUID.
func (h *BaseHandler) PathID(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		h.HandleError(c, shared.NewFieldError(name, "Invalid UUID format", raw))
		return uuid.Nil, false
	}
	return id, true
}

// respondPage writes a list response with pagination metadata.
func respondPage[T any](c *gin.Context, page *shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(*page))
}
