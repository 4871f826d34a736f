// internal/domain/cooking/entity.go
package cooking

import (
	"time"
)

// TaskStatus represents the cooking task state
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusOnHold     TaskStatus = "on_hold"
	StatusCancelled  TaskStatus = "cancelled"
)

// Priority represents cooking task urgency
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid reports whether p is a defined priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// validTransitions is the task state graph. COMPLETED and CANCELLED are
// terminal; ON_HOLD is reversible back to IN_PROGRESS.
var validTransitions = map[TaskStatus][]TaskStatus{
	StatusNotStarted: {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusOnHold, StatusCancelled},
	StatusOnHold:     {StatusInProgress, StatusCancelled},
}

// CanTransition reports whether from → to is a legal edge.
func CanTransition(from, to TaskStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing edges.
func (s TaskStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// IsValid reports whether s is a defined status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusOnHold, StatusCancelled:
		return true
	}
	return false
}

// CookingTask tracks one dish being prepared for an event.
type CookingTask struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	EventID          uint       `gorm:"not null;index" json:"event_id"`
	DishName         string     `gorm:"not null;size:255" json:"dish_name"`
	Category         string     `gorm:"size:100" json:"category"`
	Servings         int        `gorm:"not null;default:0" json:"servings"`
	Status           TaskStatus `gorm:"not null;default:'not_started'" json:"status"`
	Priority         Priority   `gorm:"not null;default:'normal'" json:"priority"`
	AssignedToID     *uint      `gorm:"index" json:"assigned_to_id,omitempty"`
	EstimatedMinutes int        `gorm:"default:0" json:"estimated_minutes"`
	AutoGenerated    bool       `gorm:"default:false" json:"auto_generated"`
	Notes            string     `gorm:"type:text" json:"notes"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName overrides the table name for CookingTask
func (CookingTask) TableName() string {
	return "cooking_tasks"
}

// IsAssignedTo checks if the task belongs to the given actor
func (t *CookingTask) IsAssignedTo(actorID uint) bool {
	return t.AssignedToID != nil && *t.AssignedToID == actorID
}
