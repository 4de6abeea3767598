// Package middleware provides the gin middleware of the HTTP API.
package middleware

import (
	"errors"
	"net/http"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/forgeledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message, c.GetString(logger.RequestIDKey)))
}

// abortWithDomainError maps err through the shared code table. Anything that
// is not a domain error is logged and hidden behind a generic 500.
func abortWithDomainError(c *gin.Context, err error) {
	var de *shared.DomainError
	if errors.As(err, &de) {
		c.AbortWithStatusJSON(dto.GetHTTPStatus(de.Code), dto.NewDomainErrorResponse(de, c.GetString(logger.RequestIDKey)))
		return
	}
	logger.FromContext(c.Request.Context()).Error("middleware failure", zap.Error(err))
	abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}
