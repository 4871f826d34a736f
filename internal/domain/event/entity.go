// internal/domain/event/entity.go
package event

import (
	"time"
)

// Status represents the event status
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Guest count bounds for a single event.
const (
	MinGuestCount = 1
	MaxGuestCount = 1000
)

// MenuItem is one line of the event menu, stored with the event as an
// ordered list.
type MenuItem struct {
	ItemName          string  `json:"item_name"`
	Category          string  `json:"category"`
	QuantityPerPerson float64 `json:"quantity_per_person"`
	Unit              string  `json:"unit"`
}

// Event represents a catered event. Events are never hard-deleted; deletion
// is the CANCELLED status.
type Event struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"not null;size:255" json:"name"`
	Date           time.Time  `gorm:"not null;index" json:"date"`
	GuestCount     int        `gorm:"not null" json:"guest_count"`
	EventType      string     `gorm:"size:100" json:"event_type"`
	Status         Status     `gorm:"not null;default:'planned'" json:"status"`
	MenuItems      []MenuItem `gorm:"serializer:json;type:jsonb" json:"menu_items"`
	AssignedChefID *uint      `gorm:"index" json:"assigned_chef_id,omitempty"`
	CreatedBy      uint       `gorm:"index" json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relationships
	Leftovers []Leftover `gorm:"foreignKey:EventID" json:"leftovers,omitempty"`

	// Set when auto-provisioning fails after the event row was saved.
	// Not persisted.
	ProvisionWarning string `gorm:"-" json:"provision_warning,omitempty"`
}

// Leftover represents surplus recorded at event close-out. When linked to a
// stock item it feeds a RETURNED ledger entry.
type Leftover struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EventID       uint      `gorm:"not null;index" json:"event_id"`
	ItemName      string    `gorm:"not null;size:255" json:"item_name"`
	Quantity      float64   `gorm:"not null" json:"quantity"`
	Unit          string    `gorm:"size:20" json:"unit"`
	EstimatedCost int64     `gorm:"default:0" json:"estimated_cost"` // In cents
	StockID       *uint     `gorm:"index" json:"stock_id,omitempty"`
	CreatedBy     uint      `gorm:"index" json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName overrides
func (Event) TableName() string    { return "events" }
func (Leftover) TableName() string { return "leftovers" }

// IsTerminal reports whether the event accepts no further changes.
func (e *Event) IsTerminal() bool {
	return e.Status == StatusCompleted || e.Status == StatusCancelled
}

// CanBeCancelled checks if the event is still cancellable
func (e *Event) CanBeCancelled() bool {
	return e.Status == StatusPlanned || e.Status == StatusInProgress
}

// CanBeClosed checks if the event can be closed out with leftovers
func (e *Event) CanBeClosed() bool {
	return e.Status == StatusPlanned || e.Status == StatusInProgress
}
