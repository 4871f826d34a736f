// internal/interfaces/http/handlers/stock.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/catering-backend/internal/domain/stock"
)

// StockHandler handles warehouse stock endpoints
type StockHandler struct {
	stockService *stock.Service
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *stock.Service) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// CreateStock handles POST /stock
func (h *StockHandler) CreateStock(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req stock.CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.stockService.CreateStock(c.Request.Context(), &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Stock item created successfully",
		"data":    item,
	})
}

// ListStock handles GET /stock
func (h *StockHandler) ListStock(c *gin.Context) {
	if _, ok := mustActor(c); !ok {
		return
	}

	category := c.Query("category")
	activeOnly := c.DefaultQuery("active_only", "true") != "false"

	items, err := h.stockService.ListStock(c.Request.Context(), category, activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items, "count": len(items)})
}

// GetStock handles GET /stock/:id
func (h *StockHandler) GetStock(c *gin.Context) {
	if _, ok := mustActor(c); !ok {
		return
	}
	stockID, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.stockService.GetStock(c.Request.Context(), stockID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

// UpdateStock handles PUT /stock/:id
func (h *StockHandler) UpdateStock(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	stockID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req stock.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.stockService.UpdateStock(c.Request.Context(), stockID, &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock item updated successfully",
		"data":    item,
	})
}

// Adjust handles POST /stock/:id/adjust
func (h *StockHandler) Adjust(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	stockID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req stock.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	entry, err := h.stockService.Adjust(c.Request.Context(), stockID, &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock adjusted successfully",
		"data":    entry,
	})
}

// BatchAdjust handles POST /stock/adjust
func (h *StockHandler) BatchAdjust(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req struct {
		Items []stock.BatchAdjustItem `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.stockService.BatchAdjust(c.Request.Context(), req.Items, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	// Partial success is reported per row, not as a failure of the call
	status := http.StatusOK
	if result.Failed > 0 && result.Succeeded == 0 {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{
		"message": "Batch adjustment processed",
		"data":    result,
	})
}

// GetAlerts handles GET /stock/alerts
func (h *StockHandler) GetAlerts(c *gin.Context) {
	if _, ok := mustActor(c); !ok {
		return
	}

	alerts, err := h.stockService.GetAlerts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": alerts})
}

// GetHistory handles GET /stock/:id/history
func (h *StockHandler) GetHistory(c *gin.Context) {
	if _, ok := mustActor(c); !ok {
		return
	}
	stockID, ok := parseID(c, "id")
	if !ok {
		return
	}

	history, err := h.stockService.GetHistory(c.Request.Context(), stockID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": history, "count": len(history)})
}
