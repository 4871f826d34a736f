// internal/domain/indent/entity.go
package indent

import (
	"fmt"
	"time"
)

// Status represents the indent lifecycle state
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// validTransitions is the lifecycle graph. APPROVED and REJECTED are
// terminal; a rejected indent is resubmitted as a fresh draft, never
// recycled.
var validTransitions = map[Status][]Status{
	StatusDraft:     {StatusSubmitted},
	StatusSubmitted: {StatusApproved, StatusRejected},
}

// CanTransition reports whether from → to is a legal lifecycle edge.
func CanTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing edges.
func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// Indent is a procurement list derived from an event's menu. Items are
// replaced wholesale while DRAFT; after submission only item-level receipt
// marking is allowed.
type Indent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ReferenceNumber string     `gorm:"uniqueIndex;not null;size:50" json:"reference_number"`
	EventID         uint       `gorm:"not null;index" json:"event_id"`
	Status          Status     `gorm:"not null;default:'draft'" json:"status"`
	TotalItems      int        `gorm:"not null;default:0" json:"total_items"`
	CreatedBy       uint       `gorm:"index" json:"created_by"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Relationships
	Items []IndentItem `gorm:"foreignKey:IndentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// IndentItem is one procurement line. IsInStock and StockID are a snapshot
// taken when the item is written; they are not revalidated afterwards.
type IndentItem struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	IndentID   uint       `gorm:"not null;index" json:"indent_id"`
	ItemName   string     `gorm:"not null;size:255" json:"item_name"`
	Category   string     `gorm:"size:100" json:"category"`
	Quantity   float64    `gorm:"not null" json:"quantity"`
	Unit       string     `gorm:"not null;size:20" json:"unit"`
	IsInStock  bool       `gorm:"default:false" json:"is_in_stock"`
	StockID    *uint      `gorm:"index" json:"stock_id,omitempty"`
	IsReceived bool       `gorm:"default:false" json:"is_received"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
	Notes      string     `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName overrides
func (Indent) TableName() string     { return "indents" }
func (IndentItem) TableName() string { return "indent_items" }

// GenerateReferenceNumber builds the printable indent reference.
// Format: IND-YYYYMMDD-XXXXX
func (i *Indent) GenerateReferenceNumber() string {
	day := i.CreatedAt
	if day.IsZero() {
		day = time.Now().UTC()
	}
	return fmt.Sprintf("IND-%s-%05d", day.Format("20060102"), i.ID)
}

// IsEditable reports whether items may be replaced or the indent deleted.
func (i *Indent) IsEditable() bool {
	return i.Status == StatusDraft
}
