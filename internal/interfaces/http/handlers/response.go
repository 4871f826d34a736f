// internal/interfaces/http/handlers/response.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/catering-backend/internal/pkg/apperrors"
	"github.com/your-org/catering-backend/internal/pkg/authz"
)

// statusFor maps a typed engine failure to its HTTP status. Untyped errors
// are treated as internal.
func statusFor(err error) int {
	kind, ok := apperrors.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindPermissionDenied:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindInvalidStateTransition, apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindInsufficientStock:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Internal errors are masked so
// database details never reach the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}

	body := gin.H{"error": message}
	if kind, ok := apperrors.KindOf(err); ok {
		body["kind"] = kind
	}
	c.JSON(status, body)
}

// mustActor returns the authenticated caller or aborts with 401. The auth
// middleware guarantees it is present on protected routes.
func mustActor(c *gin.Context) (authz.Actor, bool) {
	value, exists := c.Get("actor")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return authz.Actor{}, false
	}
	actor, ok := value.(authz.Actor)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return authz.Actor{}, false
	}
	return actor, true
}

// parseID parses a numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(value), true
}
