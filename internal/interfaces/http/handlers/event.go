// internal/interfaces/http/handlers/event.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/catering-backend/internal/domain/event"
)

// EventHandler handles event endpoints
type EventHandler struct {
	eventService *event.Service
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *event.Service) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req event.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ev, err := h.eventService.CreateEvent(c.Request.Context(), &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully",
		"data":    ev,
	})
}

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	status := event.Status(c.Query("status"))
	events, err := h.eventService.ListEvents(c.Request.Context(), status, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events, "count": len(events)})
}

// GetEvent handles GET /events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	ev, err := h.eventService.GetEvent(c.Request.Context(), eventID, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ev})
}

// UpdateEvent handles PUT /events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req event.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ev, err := h.eventService.UpdateEvent(c.Request.Context(), eventID, &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully",
		"data":    ev,
	})
}

// CancelEvent handles POST /events/:id/cancel
func (h *EventHandler) CancelEvent(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	// Reason is optional; tolerate an empty body
	_ = c.ShouldBindJSON(&req)

	ev, err := h.eventService.CancelEvent(c.Request.Context(), eventID, req.Reason, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event cancelled successfully",
		"data":    ev,
	})
}

// CloseEvent handles POST /events/:id/close
func (h *EventHandler) CloseEvent(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Leftovers []event.LeftoverInput `json:"leftovers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.eventService.CloseEvent(c.Request.Context(), eventID, req.Leftovers, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event closed successfully",
		"data":    result,
	})
}
