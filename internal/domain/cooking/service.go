// internal/domain/cooking/service.go
package cooking

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

// Service handles cooking task business logic
type Service struct {
	db        *gorm.DB
	config    *config.Config
	publisher notify.Publisher
}

// NewService creates a new cooking task service
func NewService(db *gorm.DB, cfg *config.Config, publisher notify.Publisher) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		publisher: publisher,
	}
}

// CreateTaskRequest represents manual task creation data
type CreateTaskRequest struct {
	EventID          uint     `json:"event_id" binding:"required"`
	DishName         string   `json:"dish_name" binding:"required"`
	Category         string   `json:"category"`
	Servings         int      `json:"servings"`
	Priority         Priority `json:"priority"`
	AssignedToID     *uint    `json:"assigned_to_id,omitempty"`
	EstimatedMinutes int      `json:"estimated_minutes"`
	Notes            string   `json:"notes"`
}

// UpdateStatusRequest represents a status change. Status may equal the
// current one (or be empty) to attach notes or a new estimate without
// advancing state.
type UpdateStatusRequest struct {
	Status           TaskStatus `json:"status"`
	Notes            *string    `json:"notes,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
}

// ReassignRequest represents an assignee change. Reassignment resets the
// task to NOT_STARTED unless KeepStatus is set.
type ReassignRequest struct {
	AssignedToID uint `json:"assigned_to_id" binding:"required"`
	KeepStatus   bool `json:"keep_status"`
}

// TaskSpec is one auto-generated task definition from the provisioning
// pipeline.
type TaskSpec struct {
	DishName         string
	Category         string
	Servings         int
	Priority         Priority
	AssignedToID     *uint
	EstimatedMinutes int
}

// Board groups one event's tasks by status.
type Board struct {
	EventID uint                        `json:"event_id"`
	Columns map[TaskStatus][]CookingTask `json:"columns"`
}

// CreateTask creates a task by hand.
func (s *Service) CreateTask(ctx context.Context, req *CreateTaskRequest, actor authz.Actor) (*CookingTask, error) {
	if !actor.Can(authz.RoleManager) {
		return nil, apperrors.PermissionDenied("role %s cannot create cooking tasks", actor.Role)
	}
	if strings.TrimSpace(req.DishName) == "" {
		return nil, apperrors.Validation("dish name is required")
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.IsValid() {
		return nil, apperrors.Validation("invalid priority: %s", priority)
	}

	task := &CookingTask{
		EventID:          req.EventID,
		DishName:         strings.TrimSpace(req.DishName),
		Category:         strings.TrimSpace(req.Category),
		Servings:         req.Servings,
		Status:           StatusNotStarted,
		Priority:         priority,
		AssignedToID:     req.AssignedToID,
		EstimatedMinutes: req.EstimatedMinutes,
		Notes:            req.Notes,
	}
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, fmt.Errorf("failed to create cooking task: %w", err)
	}
	return task, nil
}

// UpdateStatus applies a state transition or, when the requested status is
// empty or unchanged, just attaches notes and the estimate. A chef may only
// touch tasks assigned to them; managers and admins may touch any task.
func (s *Service) UpdateStatus(ctx context.Context, taskID uint, req *UpdateStatusRequest, actor authz.Actor) (*CookingTask, error) {
	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !actor.SeesEverything() && !task.IsAssignedTo(actor.ID) {
		return nil, apperrors.PermissionDenied("task %d is not assigned to you", taskID)
	}

	updates := map[string]interface{}{}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.EstimatedMinutes != nil {
		if *req.EstimatedMinutes < 0 {
			return nil, apperrors.Validation("estimated minutes must not be negative")
		}
		updates["estimated_minutes"] = *req.EstimatedMinutes
	}

	now := time.Now().UTC()
	transitioning := req.Status != "" && req.Status != task.Status
	if transitioning {
		if !req.Status.IsValid() {
			return nil, apperrors.Validation("invalid task status: %s", req.Status)
		}
		if !CanTransition(task.Status, req.Status) {
			return nil, apperrors.InvalidStateTransition("task cannot move from %s to %s", task.Status, req.Status)
		}
		updates["status"] = req.Status
		switch req.Status {
		case StatusInProgress:
			// startedAt records the first entry only; resuming from hold
			// keeps the original start.
			if task.StartedAt == nil {
				updates["started_at"] = now
			}
		case StatusCompleted:
			updates["completed_at"] = now
		}
	}
	if len(updates) == 0 {
		return task, nil
	}

	result := s.db.WithContext(ctx).Model(&CookingTask{}).
		Where("id = ? AND status = ?", taskID, task.Status).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update cooking task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.Conflict("task %d was modified concurrently", taskID)
	}

	task, err = s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if transitioning {
		s.publisher.Publish(ctx, notify.CookingStatusChanged, map[string]interface{}{
			"task_id":  task.ID,
			"event_id": task.EventID,
			"dish":     task.DishName,
			"status":   task.Status,
		})
	}
	return task, nil
}

// Reassign hands the task to another chef. The task drops back to
// NOT_STARTED (clearing its timing) unless the caller keeps the status.
func (s *Service) Reassign(ctx context.Context, taskID uint, req *ReassignRequest, actor authz.Actor) (*CookingTask, error) {
	if !actor.Can(authz.RoleManager) {
		return nil, apperrors.PermissionDenied("role %s cannot reassign cooking tasks", actor.Role)
	}

	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status.IsTerminal() {
		return nil, apperrors.InvalidStateTransition("task %d is %s and cannot be reassigned", taskID, task.Status)
	}

	updates := map[string]interface{}{"assigned_to_id": req.AssignedToID}
	if !req.KeepStatus && task.Status != StatusNotStarted {
		updates["status"] = StatusNotStarted
		updates["started_at"] = nil
		updates["completed_at"] = nil
	}

	result := s.db.WithContext(ctx).Model(&CookingTask{}).
		Where("id = ? AND status = ?", taskID, task.Status).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to reassign cooking task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.Conflict("task %d was modified concurrently", taskID)
	}

	return s.load(ctx, taskID)
}

// GetTask retrieves one task within the actor's scope.
func (s *Service) GetTask(ctx context.Context, taskID uint, actor authz.Actor) (*CookingTask, error) {
	query := s.db.WithContext(ctx).Where("id = ?", taskID)
	if !actor.SeesEverything() {
		query = query.Where("assigned_to_id = ?", actor.ID)
	}

	var task CookingTask
	if err := query.First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("cooking task %d not found", taskID)
		}
		return nil, fmt.Errorf("failed to load cooking task: %w", err)
	}
	return &task, nil
}

// GetBoard returns one event's tasks grouped by status, within scope.
func (s *Service) GetBoard(ctx context.Context, eventID uint, actor authz.Actor) (*Board, error) {
	query := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("priority DESC, created_at ASC")
	if !actor.SeesEverything() {
		query = query.Where("assigned_to_id = ?", actor.ID)
	}

	var tasks []CookingTask
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to load cooking board: %w", err)
	}

	board := &Board{
		EventID: eventID,
		Columns: map[TaskStatus][]CookingTask{
			StatusNotStarted: {},
			StatusInProgress: {},
			StatusOnHold:     {},
			StatusCompleted:  {},
			StatusCancelled:  {},
		},
	}
	for _, task := range tasks {
		board.Columns[task.Status] = append(board.Columns[task.Status], task)
	}
	return board, nil
}

// SyncGeneratedTasks reconciles the event's auto-generated tasks with the
// given specs. Matching is by normalized dish name, so re-running with
// unchanged specs changes nothing: existing tasks are updated in place, new
// dishes appear, auto-generated tasks for dropped dishes are removed while
// still NOT_STARTED.
func (s *Service) SyncGeneratedTasks(ctx context.Context, eventID uint, specs []TaskSpec, actor authz.Actor) ([]CookingTask, error) {
	if !actor.Can(authz.RoleManager) {
		return nil, apperrors.PermissionDenied("role %s cannot generate cooking tasks", actor.Role)
	}

	var existing []CookingTask
	if err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to load cooking tasks: %w", err)
	}

	byDish := make(map[string]*CookingTask, len(existing))
	for i := range existing {
		byDish[normalizeDish(existing[i].DishName)] = &existing[i]
	}

	wanted := make(map[string]bool, len(specs))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, spec := range specs {
			key := normalizeDish(spec.DishName)
			if key == "" || wanted[key] {
				continue
			}
			wanted[key] = true

			current, ok := byDish[key]
			if !ok {
				task := &CookingTask{
					EventID:          eventID,
					DishName:         strings.TrimSpace(spec.DishName),
					Category:         strings.TrimSpace(spec.Category),
					Servings:         spec.Servings,
					Status:           StatusNotStarted,
					Priority:         spec.Priority,
					AssignedToID:     spec.AssignedToID,
					EstimatedMinutes: spec.EstimatedMinutes,
					AutoGenerated:    true,
				}
				if err := tx.Create(task).Error; err != nil {
					return fmt.Errorf("failed to create cooking task: %w", err)
				}
				continue
			}

			// A dish already on the board keeps its progress and assignee;
			// only the derived fields refresh.
			if current.Status.IsTerminal() {
				continue
			}
			updates := map[string]interface{}{
				"servings":          spec.Servings,
				"priority":          spec.Priority,
				"estimated_minutes": spec.EstimatedMinutes,
			}
			if current.AssignedToID == nil && spec.AssignedToID != nil {
				updates["assigned_to_id"] = *spec.AssignedToID
			}
			if err := tx.Model(&CookingTask{}).Where("id = ?", current.ID).
				Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to refresh cooking task: %w", err)
			}
		}

		// Drop auto-generated tasks whose dish left the menu, but never a
		// task someone already started.
		for key, task := range byDish {
			if wanted[key] || !task.AutoGenerated || task.Status != StatusNotStarted {
				continue
			}
			if err := tx.Delete(&CookingTask{}, task.ID).Error; err != nil {
				return fmt.Errorf("failed to remove stale cooking task: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var tasks []CookingTask
	if err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to reload cooking tasks: %w", err)
	}
	return tasks, nil
}

func normalizeDish(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *Service) load(ctx context.Context, taskID uint) (*CookingTask, error) {
	var task CookingTask
	if err := s.db.WithContext(ctx).First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("cooking task %d not found", taskID)
		}
		return nil, fmt.Errorf("failed to load cooking task: %w", err)
	}
	return &task, nil
}
