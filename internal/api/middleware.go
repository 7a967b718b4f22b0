package api

import (
	"github.com/gin-gonic/gin"

	"pantrypal/internal/auth"
)

// identityKey is the gin context key holding the verified token claims.
const identityKey = "identity"

// AuthRequired verifies the bearer token on protected routes. The token is
// the raw Authorization header value (no "Bearer " scheme). On success the
// claims become the request's identity for the rest of its handling.
func AuthRequired(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.GetHeader("Authorization")
		if tokenStr == "" {
			respondError(c, tokenMissingError("Token missing"))
			c.Abort()
			return
		}

		claims, err := tokens.Verify(tokenStr)
		if err != nil {
			respondError(c, unauthorizedError("Invalid token"))
			c.Abort()
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// identity returns the claims set by AuthRequired.
func identity(c *gin.Context) *auth.Claims {
	return c.MustGet(identityKey).(*auth.Claims)
}
