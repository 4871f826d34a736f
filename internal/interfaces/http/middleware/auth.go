// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/catering-backend/internal/config"
	"github.com/your-org/catering-backend/internal/pkg/auth"
	"github.com/your-org/catering-backend/internal/pkg/authz"
)

// AuthMiddleware creates JWT authentication middleware. On success the
// caller's identity is stored in the context as an authz.Actor.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		// Get Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// Extract token from header
		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		// Validate access token
		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Store caller identity in context
		actor := authz.Actor{
			ID:   claims.UserID,
			Name: claims.Email,
			Role: claims.Role,
		}
		c.Set("actor", actor)
		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("token_claims", claims)

		c.Next()
	}
}

// RequireRole ensures the caller holds at least the given role
func RequireRole(required authz.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if !actor.Can(required) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient role for this operation",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetActorFromContext extracts the caller identity from gin context
func GetActorFromContext(c *gin.Context) (authz.Actor, bool) {
	value, exists := c.Get("actor")
	if !exists {
		return authz.Actor{}, false
	}
	actor, ok := value.(authz.Actor)
	return actor, ok
}

// GetUserIDFromContext extracts user ID from gin context
func GetUserIDFromContext(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}
