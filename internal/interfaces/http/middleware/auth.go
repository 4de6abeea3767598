package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/forgeledger/backend/internal/infrastructure/auth"
	"github.com/forgeledger/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// UserIDKey is the gin context key holding the authenticated caller.
const UserIDKey = "user_id"

// TokenValidator verifies a bearer token.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Authenticate requires a valid bearer token and stores the caller's user ID
// in the gin and request contexts.
func Authenticate(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, http.StatusUnauthorized, shared.CodeUnauthorized, "Authorization header is required")
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortWithError(c, http.StatusUnauthorized, shared.CodeUnauthorized, "Authorization header must be a Bearer token")
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(token))
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, shared.CodeUnauthorized, tokenErrorMessage(err))
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, shared.CodeUnauthorized, tokenErrorMessage(err))
			return
		}

		c.Set(UserIDKey, userID)
		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), userID)
		c.Request = c.Request.WithContext(ctx)
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("user_id", userID.String()))
		c.Next()
	}
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		return "Token is not yet valid"
	case errors.Is(err, auth.ErrMissingSubject):
		return "Token does not identify a user"
	default:
		return "Invalid token"
	}
}

// UserID returns the caller stored by Authenticate.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	uid, ok := id.(uuid.UUID)
	return uid, ok && uid != uuid.Nil
}
