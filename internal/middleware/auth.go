package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (uuid.UUID, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := bearerUserID(c, validator)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the user when a valid token is
// present and lets anonymous requests through. Analysis works without
// an account; a token just unlocks personalization and history.
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := bearerUserID(c, validator); ok {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

func bearerUserID(c *gin.Context, validator TokenValidator) (uuid.UUID, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return uuid.Nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return uuid.Nil, false
	}

	userID, err := validator.ValidateToken(parts[1])
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// UserIDFromContext returns the authenticated user ID, or nil for an
// anonymous request.
func UserIDFromContext(c *gin.Context) *uuid.UUID {
	v, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}
