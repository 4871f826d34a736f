// internal/domain/stock/service.go
package stock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/your-org/catering-backend/internal/config"
	"github.com/your-org/catering-backend/internal/infrastructure/notify"
	"github.com/your-org/catering-backend/internal/pkg/apperrors"
	"github.com/your-org/catering-backend/internal/pkg/authz"
	"gorm.io/gorm"
)

// ExpiryAlertWindow is how far ahead the alerts query looks for items that
// are about to expire.
const ExpiryAlertWindow = 7 * 24 * time.Hour

// Service handles warehouse stock and its ledger
type Service struct {
	db        *gorm.DB
	config    *config.Config
	publisher notify.Publisher
}

// NewService creates a new stock service
func NewService(db *gorm.DB, cfg *config.Config, publisher notify.Publisher) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		publisher: publisher,
	}
}

// CreateStockRequest represents stock item creation data
type CreateStockRequest struct {
	ItemName    string     `json:"item_name" binding:"required"`
	Category    string     `json:"category"`
	Quantity    float64    `json:"quantity"`
	Unit        string     `json:"unit" binding:"required"`
	MinStock    float64    `json:"min_stock"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	CostPerUnit int64      `json:"cost_per_unit"` // In cents
}

// UpdateStockRequest represents mutable stock item fields. Quantity is
// deliberately absent: it only moves through ledger adjustments.
type UpdateStockRequest struct {
	Category    *string    `json:"category,omitempty"`
	Unit        *string    `json:"unit,omitempty"`
	MinStock    *float64   `json:"min_stock,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	CostPerUnit *int64     `json:"cost_per_unit,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

// AdjustRequest represents one ledger adjustment
type AdjustRequest struct {
	Type     UpdateType `json:"type" binding:"required"`
	Quantity float64    `json:"quantity" binding:"required"`
	// Decrease resolves the direction of an ADJUSTED entry. Ignored for the
	// other types, which imply their direction.
	Decrease bool   `json:"decrease,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// BatchAdjustItem is one row of a batch adjustment
type BatchAdjustItem struct {
	StockID uint `json:"stock_id" binding:"required"`
	AdjustRequest
}

// BatchAdjustOutcome is the per-row result of a batch adjustment
type BatchAdjustOutcome struct {
	StockID     uint    `json:"stock_id"`
	Success     bool    `json:"success"`
	NewQuantity float64 `json:"new_quantity,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// BatchAdjustResult reports partial success: each row is processed
// independently and one row's failure never rolls back the others.
type BatchAdjustResult struct {
	Succeeded int                  `json:"succeeded"`
	Failed    int                  `json:"failed"`
	Outcomes  []BatchAdjustOutcome `json:"outcomes"`
}

// AlertsResponse groups the stock alert queries
type AlertsResponse struct {
	LowStock []Stock `json:"low_stock"`
	Expiring []Stock `json:"expiring"`
	Expired  []Stock `json:"expired"`
}

// CreateStock creates a warehouse item. A non-zero opening quantity gets an
// opening ledger entry so replay starts from zero.
func (s *Service) CreateStock(ctx context.Context, req *CreateStockRequest, actor authz.Actor) (*Stock, error) {
	if !actor.Can(authz.RoleManager) {
		return nil, apperrors.PermissionDenied("role %s cannot manage stock", actor.Role)
	}
	if strings.TrimSpace(req.ItemName) == "" {
		return nil, apperrors.Validation("item name is required")
	}
	if strings.TrimSpace(req.Unit) == "" {
		return nil, apperrors.Validation("unit is required")
	}
	if req.Quantity < 0 {
		return nil, apperrors.Validation("quantity must not be negative")
	}
	if req.MinStock < 0 {
		return nil, apperrors.Validation("min stock must not be negative")
	}

	item := &Stock{
		ItemName:    strings.TrimSpace(req.ItemName),
		Category:    strings.TrimSpace(req.Category),
		Quantity:    req.Quantity,
		Unit:        strings.TrimSpace(req.Unit),
		MinStock:    req.MinStock,
		ExpiryDate:  req.ExpiryDate,
		CostPerUnit: req.CostPerUnit,
		IsActive:    true,
		CreatedBy:   actor.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return fmt.Errorf("failed to create stock item: %w", err)
		}
		if req.Quantity > 0 {
			opening := &StockUpdate{
				StockID:          item.ID,
				Type:             UpdateTypeAdded,
				Quantity:         req.Quantity,
				QuantityChange:   req.Quantity,
				PreviousQuantity: 0,
				NewQuantity:      req.Quantity,
				Reason:           "opening stock",
				CreatedBy:        actor.ID,
			}
			if err := tx.Create(opening).Error; err != nil {
				return fmt.Errorf("failed to create opening ledger entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateStock mutates descriptive stock fields. Quantity never changes here.
func (s *Service) UpdateStock(ctx context.Context, stockID uint, req *UpdateStockRequest, actor authz.Actor) (*Stock, error) {
	if !actor.Can(authz.RoleManager) {
		return nil, apperrors.PermissionDenied("role %s cannot manage stock", actor.Role)
	}

	var item Stock
	if err := s.db.First(&item, stockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("stock item %d not found", stockID)
		}
		return nil, fmt.Errorf("failed to load stock item: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Category != nil {
		updates["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Unit != nil {
		if strings.TrimSpace(*req.Unit) == "" {
			return nil, apperrors.Validation("unit must not be empty")
		}
		updates["unit"] = strings.TrimSpace(*req.Unit)
	}
	if req.MinStock != nil {
		if *req.MinStock < 0 {
			return nil, apperrors.Validation("min stock must not be negative")
		}
		updates["min_stock"] = *req.MinStock
	}
	if req.ExpiryDate != nil {
		updates["expiry_date"] = *req.ExpiryDate
	}
	if req.CostPerUnit != nil {
		updates["cost_per_unit"] = *req.CostPerUnit
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return &item, nil
	}

	if err := s.db.Model(&item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update stock item: %w", err)
	}
	return &item, nil
}

// GetStock retrieves one stock item
func (s *Service) GetStock(ctx context.Context, stockID uint) (*Stock, error) {
	var item Stock
	if err := s.db.First(&item, stockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("stock item %d not found", stockID)
		}
		return nil, fmt.Errorf("failed to load stock item: %w", err)
	}
	return &item, nil
}

// ListStock retrieves stock items, optionally filtered by category and
// activity. Stock carries no assignment, so it is visible to every role.
func (s *Service) ListStock(ctx context.Context, category string, activeOnly bool) ([]Stock, error) {
	query := s.db.Model(&Stock{}).Order("item_name ASC")
	if category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", category)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var items []Stock
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock: %w", err)
	}
	return items, nil
}

// Adjust applies one ledger operation. The quantity guard and the mutation
// are a single UPDATE, so two concurrent decrements can never both observe
// the pre-update quantity; the entry and the new quantity commit together or
// not at all.
func (s *Service) Adjust(ctx context.Context, stockID uint, req *AdjustRequest, actor authz.Actor) (*StockUpdate, error) {
	if err := s.authorizeAdjust(req.Type, actor); err != nil {
		return nil, err
	}
	if !req.Type.IsValid() {
		return nil, apperrors.Validation("invalid ledger entry type: %s", req.Type)
	}
	if req.Quantity <= 0 {
		return nil, apperrors.Validation("adjustment quantity must be positive")
	}

	delta := req.Quantity
	if req.Type.Decreases() || (req.Type == UpdateTypeAdjusted && req.Decrease) {
		delta = -req.Quantity
	}

	var entry *StockUpdate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item Stock
		if err := tx.First(&item, stockID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("stock item %d not found", stockID)
			}
			return fmt.Errorf("failed to load stock item: %w", err)
		}

		update := tx.Model(&Stock{}).Where("id = ?", stockID)
		if delta < 0 {
			// Guard in the WHERE clause: the decrement only lands if enough
			// stock is on hand at execution time.
			update = update.Where("quantity >= ?", -delta)
		}
		result := update.Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now().UTC(),
		})
		if result.Error != nil {
			return fmt.Errorf("failed to apply stock adjustment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.InsufficientStock(
				"insufficient stock for %s: available %.2f %s, requested %.2f %s",
				item.ItemName, item.Quantity, item.Unit, req.Quantity, item.Unit)
		}

		// Re-read inside the transaction for the ledger snapshot.
		var after Stock
		if err := tx.First(&after, stockID).Error; err != nil {
			return fmt.Errorf("failed to reload stock item: %w", err)
		}

		entry = &StockUpdate{
			StockID:          stockID,
			Type:             req.Type,
			Quantity:         req.Quantity,
			QuantityChange:   delta,
			PreviousQuantity: after.Quantity - delta,
			NewQuantity:      after.Quantity,
			Reason:           req.Reason,
			CreatedBy:        actor.ID,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to create ledger entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, notify.StockAdjusted, entry)
	return entry, nil
}

// BatchAdjust applies many ledger operations independently and reports one
// outcome per row. Partial success is expected, not an error.
func (s *Service) BatchAdjust(ctx context.Context, items []BatchAdjustItem, actor authz.Actor) (*BatchAdjustResult, error) {
	if len(items) == 0 {
		return nil, apperrors.Validation("batch must contain at least one adjustment")
	}

	result := &BatchAdjustResult{Outcomes: make([]BatchAdjustOutcome, 0, len(items))}
	for i := range items {
		item := items[i]
		entry, err := s.Adjust(ctx, item.StockID, &item.AdjustRequest, actor)
		if err != nil {
			result.Failed++
			result.Outcomes = append(result.Outcomes, BatchAdjustOutcome{
				StockID: item.StockID,
				Success: false,
				Error:   err.Error(),
			})
			continue
		}
		result.Succeeded++
		result.Outcomes = append(result.Outcomes, BatchAdjustOutcome{
			StockID:     item.StockID,
			Success:     true,
			NewQuantity: entry.NewQuantity,
		})
	}
	return result, nil
}

// CheckAvailability matches a requirement against active stock by
// case-insensitive exact name. Returns whether the requirement is covered
// and the matched stock id, if any.
func (s *Service) CheckAvailability(ctx context.Context, itemName string, required float64) (bool, *uint, error) {
	var item Stock
	err := s.db.WithContext(ctx).
		Where("LOWER(item_name) = LOWER(?) AND is_active = ?", strings.TrimSpace(itemName), true).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, nil
		}
		return false, nil, fmt.Errorf("failed to check availability: %w", err)
	}

	id := item.ID
	return item.Quantity >= required, &id, nil
}

// GetAlerts returns low-stock, expiring and expired active items
func (s *Service) GetAlerts(ctx context.Context) (*AlertsResponse, error) {
	now := time.Now().UTC()
	resp := &AlertsResponse{}

	if err := s.db.Where("is_active = ? AND quantity <= min_stock", true).
		Order("item_name ASC").Find(&resp.LowStock).Error; err != nil {
		return nil, fmt.Errorf("failed to load low-stock alerts: %w", err)
	}

	if err := s.db.Where("is_active = ? AND expiry_date IS NOT NULL AND expiry_date > ? AND expiry_date <= ?",
		true, now, now.Add(ExpiryAlertWindow)).
		Order("expiry_date ASC").Find(&resp.Expiring).Error; err != nil {
		return nil, fmt.Errorf("failed to load expiring alerts: %w", err)
	}

	if err := s.db.Where("is_active = ? AND expiry_date IS NOT NULL AND expiry_date < ?", true, now).
		Order("expiry_date ASC").Find(&resp.Expired).Error; err != nil {
		return nil, fmt.Errorf("failed to load expired alerts: %w", err)
	}

	return resp, nil
}

// GetHistory returns the ledger for one stock item, newest first
func (s *Service) GetHistory(ctx context.Context, stockID uint) ([]StockUpdate, error) {
	var item Stock
	if err := s.db.First(&item, stockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("stock item %d not found", stockID)
		}
		return nil, fmt.Errorf("failed to load stock item: %w", err)
	}

	var updates []StockUpdate
	if err := s.db.Where("stock_id = ?", stockID).
		Order("created_at DESC, id DESC").Find(&updates).Error; err != nil {
		return nil, fmt.Errorf("failed to load ledger entries: %w", err)
	}
	return updates, nil
}

// authorizeAdjust applies the write policy: recording usage is part of
// cooking, so chefs may record USED entries; everything else needs a
// manager.
func (s *Service) authorizeAdjust(t UpdateType, actor authz.Actor) error {
	if t == UpdateTypeUsed {
		if !actor.Can(authz.RoleChef) {
			return apperrors.PermissionDenied("role %s cannot record stock usage", actor.Role)
		}
		return nil
	}
	if !actor.Can(authz.RoleManager) {
		return apperrors.PermissionDenied("role %s cannot adjust stock", actor.Role)
	}
	return nil
}
