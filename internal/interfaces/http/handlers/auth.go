// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/catering-backend/internal/domain/user"
	"github.com/your-org/catering-backend/internal/interfaces/http/middleware"
	"github.com/your-org/catering-backend/internal/pkg/authz"
)

// AuthHandler handles authentication and staff account endpoints
type AuthHandler struct {
	userService *user.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *user.Service) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	// Actor is nil for public self-registration; elevated roles require an
	// authenticated admin caller.
	var actor *authz.Actor
	if a, ok := middleware.GetActorFromContext(c); ok {
		actor = &a
	}

	resp, err := h.userService.Register(actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"data":    resp,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	resp, err := h.userService.Login(&req)
	if err != nil {
		// Do not leak whether the email exists
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    resp,
	})
}

// RefreshToken handles POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token required"})
		return
	}

	resp, err := h.userService.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Token refreshed successfully",
		"data":    resp,
	})
}

// GetProfile handles GET /auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// UpdateProfile handles PUT /auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	profile, err := h.userService.UpdateProfile(actor.ID, updates)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"data":    profile,
	})
}

// ChangePassword handles POST /auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	if err := h.userService.ChangePassword(actor.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// ListStaff handles GET /staff
func (h *AuthHandler) ListStaff(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var roleFilter *authz.Role
	if raw := c.Query("role"); raw != "" {
		role, err := authz.ParseRole(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role filter"})
			return
		}
		roleFilter = &role
	}

	staff, err := h.userService.ListStaff(&actor, roleFilter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": staff, "count": len(staff)})
}

// ListChefs handles GET /staff/chefs
func (h *AuthHandler) ListChefs(c *gin.Context) {
	chefs, err := h.userService.ListChefs()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": chefs, "count": len(chefs)})
}

// SetRole handles PUT /staff/:id/role
func (h *AuthHandler) SetRole(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role required"})
		return
	}

	role, err := authz.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	updated, err := h.userService.SetRole(&actor, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role updated successfully",
		"data":    updated,
	})
}

// SetActive handles PUT /staff/:id/active
func (h *AuthHandler) SetActive(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Active flag required"})
		return
	}

	if err := h.userService.SetActive(&actor, userID, *req.Active); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account updated successfully"})
}
