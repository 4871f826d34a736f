// internal/interfaces/http/handlers/indent.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/catering-backend/internal/domain/event"
	"github.com/your-org/catering-backend/internal/domain/indent"
	"github.com/your-org/catering-backend/internal/pkg/authz"
	"github.com/your-org/catering-backend/internal/pkg/pdf"
)

// IndentHandler handles indent endpoints
type IndentHandler struct {
	indentService *indent.Service
	eventService  *event.Service
	pdfService    *pdf.Service
}

// NewIndentHandler creates a new indent handler
func NewIndentHandler(indentService *indent.Service, eventService *event.Service, pdfService *pdf.Service) *IndentHandler {
	return &IndentHandler{
		indentService: indentService,
		eventService:  eventService,
		pdfService:    pdfService,
	}
}

// CreateIndent handles POST /indents
func (h *IndentHandler) CreateIndent(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req struct {
		EventID uint             `json:"event_id" binding:"required"`
		Items   []indent.NewItem `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ind, err := h.indentService.Create(c.Request.Context(), req.EventID, req.Items, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Indent created successfully",
		"data":    ind,
	})
}

// ListIndents handles GET /indents
func (h *IndentHandler) ListIndents(c *gin.Context) {
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

	status := indent.Status(c.Query("status"))
	indents, err := h.indentService.ListIndents(c.Request.Context(), eventID, status, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": indents, "count": len(indents)})
}

// GetIndent handles GET /indents/:id
func (h *IndentHandler) GetIndent(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	indentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	ind, err := h.indentService.GetIndent(c.Request.Context(), indentID, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ind})
}

// ReplaceItems handles PUT /indents/:id/items
func (h *IndentHandler) ReplaceItems(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	indentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Items []indent.NewItem `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	ind, err := h.indentService.ReplaceItems(c.Request.Context(), indentID, req.Items, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Indent items updated successfully",
		"data":    ind,
	})
}

// Submit handles POST /indents/:id/submit
func (h *IndentHandler) Submit(c *gin.Context) {
	h.transition(c, h.indentService.Submit, "Indent submitted successfully")
}

// Approve handles POST /indents/:id/approve
func (h *IndentHandler) Approve(c *gin.Context) {
	h.transition(c, h.indentService.Approve, "Indent approved successfully")
}

// Reject handles POST /indents/:id/reject
func (h *IndentHandler) Reject(c *gin.Context) {
	h.transition(c, h.indentService.Reject, "Indent rejected")
}

// MarkItemReceived handles POST /indents/:id/items/:itemId/receive
func (h *IndentHandler) MarkItemReceived(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	indentID, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}

	var req struct {
		ActualQuantity *float64 `json:"actual_quantity,omitempty"`
	}
	// Body is optional; absent means received as ordered
	_ = c.ShouldBindJSON(&req)

	item, err := h.indentService.MarkItemReceived(c.Request.Context(), indentID, itemID, req.ActualQuantity, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item marked as received",
		"data":    item,
	})
}

// DeleteIndent handles DELETE /indents/:id
func (h *IndentHandler) DeleteIndent(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	indentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.indentService.Delete(c.Request.Context(), indentID, actor); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Indent deleted successfully"})
}

// ExportPDF handles GET /indents/:id/pdf
func (h *IndentHandler) ExportPDF(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	indentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	ind, err := h.indentService.GetIndent(c.Request.Context(), indentID, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	eventName := fmt.Sprintf("Event #%d", ind.EventID)
	if ev, err := h.eventService.GetEvent(c.Request.Context(), ind.EventID, actor); err == nil {
		eventName = ev.Name
	}

	buf, err := h.pdfService.GenerateIndentSheet(ind, eventName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	filename := fmt.Sprintf("%s.pdf", ind.ReferenceNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *IndentHandler) transition(c *gin.Context, fn func(ctx context.Context, indentID uint, actor authz.Actor) (*indent.Indent, error), message string) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	indentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	ind, err := fn(c.Request.Context(), indentID, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    ind,
	})
}
