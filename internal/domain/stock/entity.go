// internal/domain/stock/entity.go
package stock

import (
	"time"

	"gorm.io/gorm"
)

// UpdateType represents the type of a stock ledger entry
type UpdateType string

const (
	UpdateTypeAdded    UpdateType = "added"    // Purchase, delivery, indent receipt
	UpdateTypeUsed     UpdateType = "used"     // Consumed while cooking
	UpdateTypeExpired  UpdateType = "expired"  // Written off past expiry
	UpdateTypeReturned UpdateType = "returned" // Leftover returned to the warehouse
	UpdateTypeAdjusted UpdateType = "adjusted" // Manual correction after a count
)

// IsValid reports whether t is one of the defined ledger entry types.
func (t UpdateType) IsValid() bool {
	switch t {
	case UpdateTypeAdded, UpdateTypeUsed, UpdateTypeExpired, UpdateTypeReturned, UpdateTypeAdjusted:
		return true
	}
	return false
}

// Decreases reports whether the type always reduces quantity. ADJUSTED is
// signed and resolves its direction from the request.
func (t UpdateType) Decreases() bool {
	return t == UpdateTypeUsed || t == UpdateTypeExpired
}

// Increases reports whether the type always raises quantity.
func (t UpdateType) Increases() bool {
	return t == UpdateTypeAdded || t == UpdateTypeReturned
}

// Stock represents one warehouse item. Quantity is mutated only through
// ledger operations; nothing overwrites it directly.
type Stock struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ItemName    string         `gorm:"not null;size:255;index" json:"item_name"`
	Category    string         `gorm:"size:100;index" json:"category"`
	Quantity    float64        `gorm:"not null;default:0" json:"quantity"`
	Unit        string         `gorm:"not null;size:20" json:"unit"`
	MinStock    float64        `gorm:"default:0" json:"min_stock"`
	ExpiryDate  *time.Time     `json:"expiry_date,omitempty"`
	CostPerUnit int64          `gorm:"default:0" json:"cost_per_unit"` // In cents
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedBy   uint           `gorm:"index" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Updates []StockUpdate `gorm:"foreignKey:StockID" json:"updates,omitempty"`
}

// StockUpdate is one immutable ledger entry. Quantity is the magnitude of
// the change; QuantityChange is the signed delta, so summing it over a stock
// id reproduces the current quantity exactly.
type StockUpdate struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	StockID          uint       `gorm:"not null;index" json:"stock_id"`
	Type             UpdateType `gorm:"not null" json:"type"`
	Quantity         float64    `gorm:"not null" json:"quantity"`
	QuantityChange   float64    `gorm:"not null" json:"quantity_change"`
	PreviousQuantity float64    `gorm:"not null" json:"previous_quantity"`
	NewQuantity      float64    `gorm:"not null" json:"new_quantity"`
	Reason           string     `gorm:"type:text" json:"reason"`
	CreatedBy        uint       `gorm:"index" json:"created_by"`
	CreatedAt        time.Time  `json:"created_at"`

	// Relationships
	Stock Stock `gorm:"foreignKey:StockID" json:"stock,omitempty"`
}

// TableName overrides
func (Stock) TableName() string       { return "stocks" }
func (StockUpdate) TableName() string { return "stock_updates" }

// IsLowStock checks if the item is at or below its reorder threshold
func (s *Stock) IsLowStock() bool {
	return s.Quantity <= s.MinStock
}

// IsExpired checks if the item is past its expiry date
func (s *Stock) IsExpired(now time.Time) bool {
	return s.ExpiryDate != nil && s.ExpiryDate.Before(now)
}

// IsExpiringSoon checks if the item expires within the alert window
func (s *Stock) IsExpiringSoon(now time.Time, window time.Duration) bool {
	if s.ExpiryDate == nil || s.IsExpired(now) {
		return false
	}
	return s.ExpiryDate.Before(now.Add(window))
}

// CanFulfill checks if there is enough on hand for a requirement
func (s *Stock) CanFulfill(quantity float64) bool {
	return s.IsActive && s.Quantity >= quantity
}

// Replay sums signed ledger deltas on top of an opening quantity. The result
// must match Stock.Quantity for a complete ledger.
func Replay(opening float64, updates []StockUpdate) float64 {
	total := opening
	for _, u := range updates {
		total += u.QuantityChange
	}
	return total
}
