// internal/interfaces/http/handlers/cooking.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/catering-backend/internal/domain/cooking"
)

// CookingHandler handles cooking task endpoints
type CookingHandler struct {
	cookingService *cooking.Service
}

// NewCookingHandler creates a new cooking handler
func NewCookingHandler(cookingService *cooking.Service) *CookingHandler {
	return &CookingHandler{
		cookingService: cookingService,
	}
}

// CreateTask handles POST /cooking/tasks
func (h *CookingHandler) CreateTask(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req cooking.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	task, err := h.cookingService.CreateTask(c.Request.Context(), &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Cooking task created successfully",
		"data":    task,
	})
}

// GetBoard handles GET /cooking/board
func (h *CookingHandler) GetBoard(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var eventID uint
	if raw := c.Query("event_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event_id"})
			return
		}
		eventID = uint(parsed)
	}

	board, err := h.cookingService.GetBoard(c.Request.Context(), eventID, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": board})
}

// GetTask handles GET /cooking/tasks/:id
func (h *CookingHandler) GetTask(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := h.cookingService.GetTask(c.Request.Context(), taskID, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": task})
}

// UpdateStatus handles PUT /cooking/tasks/:id/status
func (h *CookingHandler) UpdateStatus(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req cooking.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	task, err := h.cookingService.UpdateStatus(c.Request.Context(), taskID, &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task status updated successfully",
		"data":    task,
	})
}

// Reassign handles PUT /cooking/tasks/:id/assignee
func (h *CookingHandler) Reassign(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req cooking.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	task, err := h.cookingService.Reassign(c.Request.Context(), taskID, &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task reassigned successfully",
		"data":    task,
	})
}
