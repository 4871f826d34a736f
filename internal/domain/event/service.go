// internal/domain/event/service.go
package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/catering-backend/internal/config"
	"github.com/your-org/catering-backend/internal/domain/stock"
	"github.com/your-org/catering-backend/internal/infrastructure/notify"
	"github.com/your-org/catering-backend/internal/pkg/apperrors"
	"github.com/your-org/catering-backend/internal/pkg/authz"
	"gorm.io/gorm"
)

// Provisioner re-derives the procurement draft and cooking tasks after an
// event is created or its menu or guest count changes.
type Provisioner interface {
	Provision(ctx context.Context, ev *Event, actor authz.Actor) error
}

// Service handles event business logic
type Service struct {
	db          *gorm.DB
	config      *config.Config
	stockSvc    *stock.Service
	publisher   notify.Publisher
	provisioner Provisioner
	log         *logrus.Logger
}

// NewService creates a new event service
func NewService(db *gorm.DB, cfg *config.Config, stockSvc *stock.Service, publisher notify.Publisher, log *logrus.Logger) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		stockSvc:  stockSvc,
		publisher: publisher,
		log:       log,
	}
}

// SetProvisioner wires the auto-provisioning pipeline. Set once at startup;
// events created before it is set are not provisioned.
func (s *Service) SetProvisioner(p Provisioner) {
	s.provisioner = p
}

// CreateEventRequest represents event creation data
type CreateEventRequest struct {
	Name           string     `json:"name" binding:"required"`
	Date           time.Time  `json:"date" binding:"required"`
	GuestCount     int        `json:"guest_count" binding:"required"`
	EventType      string     `json:"event_type"`
	MenuItems      []MenuItem `json:"menu_items"`
	AssignedChefID *uint      `json:"assigned_chef_id,omitempty"`
}

// UpdateEventRequest represents mutable event fields
type UpdateEventRequest struct {
	Name           *string     `json:"name,omitempty"`
	Date           *time.Time  `json:"date,omitempty"`
	GuestCount     *int        `json:"guest_count,omitempty"`
	EventType      *string     `json:"event_type,omitempty"`
	MenuItems      *[]MenuItem `json:"menu_items,omitempty"`
	AssignedChefID *uint       `json:"assigned_chef_id,omitempty"`
	Status         *Status     `json:"status,omitempty"`
}

// LeftoverInput is one leftover line recorded at close-out
type LeftoverInput struct {
	ItemName      string  `json:"item_name" binding:"required"`
	Quantity      float64 `json:"quantity" binding:"required"`
	Unit          string  `json:"unit"`
	EstimatedCost int64   `json:"estimated_cost"`
	StockID       *uint   `json:"stock_id,omitempty"`
}

// ReturnOutcome is the per-leftover result of returning stock at close-out
type ReturnOutcome struct {
	ItemName string `json:"item_name"`
	StockID  *uint  `json:"stock_id,omitempty"`
	Returned bool   `json:"returned"`
	Error    string `json:"error,omitempty"`
}

// CloseResult reports the close-out and its stock returns
type CloseResult struct {
	Event   *Event          `json:"event"`
	Returns []ReturnOutcome `json:"returns"`
}

// CreateEvent creates an event and runs the auto-provisioning pipeline.
func (s *Service) CreateEvent(ctx context.Context, req *CreateEventRequest, actor authz.Actor) (*Event, error) {
	if !actor.Can(authz.RoleManager) {
		return nil, apperrors.PermissionDenied("role %s cannot create events", actor.Role)
	}
	if err := validateEventInput(req.Name, req.GuestCount, req.MenuItems); err != nil {
		return nil, err
	}

	ev := &Event{
		Name:           strings.TrimSpace(req.Name),
		Date:           req.Date,
		GuestCount:     req.GuestCount,
		EventType:      strings.TrimSpace(req.EventType),
		Status:         StatusPlanned,
		MenuItems:      req.MenuItems,
		AssignedChefID: req.AssignedChefID,
		CreatedBy:      actor.ID,
	}

	if err := s.db.WithContext(ctx).Create(ev).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	// The event row is already committed; a provisioning failure must not
	// fail the request, or a retry would duplicate the event. The pipeline
	// is idempotent, so the next menu or guest-count update re-derives the
	// draft indent.
	s.provision(ctx, ev, actor)

	return ev, nil
}

// UpdateEvent mutates an event. A guest-count or menu change re-runs the
// provisioning pipeline.
func (s *Service) UpdateEvent(ctx context.Context, eventID uint, req *UpdateEventRequest, actor authz.Actor) (*Event, error) {
	if !actor.Can(authz.RoleManager) {
		return nil, apperrors.PermissionDenied("role %s cannot update events", actor.Role)
	}

	ev, err := s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.IsTerminal() {
		return nil, apperrors.InvalidStateTransition("event %d is %s and cannot be modified", eventID, ev.Status)
	}

	updates := map[string]interface{}{}
	reprovision := false

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperrors.Validation("event name must not be empty")
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.GuestCount != nil {
		if *req.GuestCount < MinGuestCount || *req.GuestCount > MaxGuestCount {
			return nil, apperrors.Validation("guest count must be between %d and %d", MinGuestCount, MaxGuestCount)
		}
		if *req.GuestCount != ev.GuestCount {
			reprovision = true
		}
		updates["guest_count"] = *req.GuestCount
	}
	if req.EventType != nil {
		updates["event_type"] = strings.TrimSpace(*req.EventType)
	}
	if req.MenuItems != nil {
		if err := validateMenuItems(*req.MenuItems); err != nil {
			return nil, err
		}
		updates["menu_items"] = *req.MenuItems
		reprovision = true
	}
	if req.AssignedChefID != nil {
		updates["assigned_chef_id"] = *req.AssignedChefID
	}
	if req.Status != nil {
		// The only direct status change is starting the event; completion
		// and cancellation have their own operations.
		if *req.Status != StatusInProgress || ev.Status != StatusPlanned {
			return nil, apperrors.InvalidStateTransition("event status cannot change from %s to %s", ev.Status, *req.Status)
		}
		updates["status"] = StatusInProgress
	}
	if len(updates) == 0 {
		return ev, nil
	}

	// Guard on the observed status so a concurrent cancel/close loses
	// cleanly instead of being overwritten.
	result := s.db.WithContext(ctx).Model(&Event{}).
		Where("id = ? AND status = ?", eventID, ev.Status).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.Conflict("event %d was modified concurrently", eventID)
	}

	ev, err = s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if reprovision {
		s.provision(ctx, ev, actor)
	}

	return ev, nil
}

// GetEvent retrieves one event within the actor's scope. Out-of-scope events
// read as absent.
func (s *Service) GetEvent(ctx context.Context, eventID uint, actor authz.Actor) (*Event, error) {
	query := s.db.WithContext(ctx).Preload("Leftovers").Where("id = ?", eventID)
	if !actor.SeesEverything() {
		query = query.Where("assigned_chef_id = ?", actor.ID)
	}

	var ev Event
	if err := query.First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("event %d not found", eventID)
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return &ev, nil
}

// ListEvents retrieves events within the actor's scope
func (s *Service) ListEvents(ctx context.Context, status Status, actor authz.Actor) ([]Event, error) {
	query := s.db.WithContext(ctx).Model(&Event{}).Order("date ASC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if !actor.SeesEverything() {
		query = query.Where("assigned_chef_id = ?", actor.ID)
	}

	var events []Event
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// CancelEvent soft-deletes an event via the CANCELLED status.
func (s *Service) CancelEvent(ctx context.Context, eventID uint, reason string, actor authz.Actor) (*Event, error) {
	if !actor.Can(authz.RoleManager) {
		return nil, apperrors.PermissionDenied("role %s cannot cancel events", actor.Role)
	}

	ev, err := s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !ev.CanBeCancelled() {
		return nil, apperrors.InvalidStateTransition("event %d is %s and cannot be cancelled", eventID, ev.Status)
	}

	result := s.db.WithContext(ctx).Model(&Event{}).
		Where("id = ? AND status IN ?", eventID, []Status{StatusPlanned, StatusInProgress}).
		Update("status", StatusCancelled)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to cancel event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.Conflict("event %d was modified concurrently", eventID)
	}

	ev.Status = StatusCancelled
	s.publisher.Publish(ctx, notify.EventCancelled, map[string]interface{}{
		"event_id": eventID,
		"reason":   reason,
	})
	return ev, nil
}

// CloseEvent completes an event and records its leftovers. Leftovers linked
// to a stock item feed RETURNED ledger entries; each return is independent
// and a failed return never undoes the close-out.
func (s *Service) CloseEvent(ctx context.Context, eventID uint, leftovers []LeftoverInput, actor authz.Actor) (*CloseResult, error) {
	if !actor.Can(authz.RoleManager) {
		return nil, apperrors.PermissionDenied("role %s cannot close events", actor.Role)
	}

	ev, err := s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !ev.CanBeClosed() {
		return nil, apperrors.InvalidStateTransition("event %d is %s and cannot be closed", eventID, ev.Status)
	}
	for _, l := range leftovers {
		if strings.TrimSpace(l.ItemName) == "" {
			return nil, apperrors.Validation("leftover item name is required")
		}
		if l.Quantity <= 0 {
			return nil, apperrors.Validation("leftover quantity must be positive")
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Event{}).
			Where("id = ? AND status IN ?", eventID, []Status{StatusPlanned, StatusInProgress}).
			Update("status", StatusCompleted)
		if result.Error != nil {
			return fmt.Errorf("failed to complete event: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Conflict("event %d was modified concurrently", eventID)
		}

		for _, l := range leftovers {
			row := &Leftover{
				EventID:       eventID,
				ItemName:      strings.TrimSpace(l.ItemName),
				Quantity:      l.Quantity,
				Unit:          strings.TrimSpace(l.Unit),
				EstimatedCost: l.EstimatedCost,
				StockID:       l.StockID,
				CreatedBy:     actor.ID,
			}
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("failed to record leftover: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Stock returns happen after the close-out commits, one ledger entry per
	// linked leftover, reported individually.
	returns := make([]ReturnOutcome, 0, len(leftovers))
	for _, l := range leftovers {
		outcome := ReturnOutcome{ItemName: l.ItemName, StockID: l.StockID}
		if l.StockID != nil {
			_, adjErr := s.stockSvc.Adjust(ctx, *l.StockID, &stock.AdjustRequest{
				Type:     stock.UpdateTypeReturned,
				Quantity: l.Quantity,
				Reason:   fmt.Sprintf("leftover return from event %d", eventID),
			}, actor)
			if adjErr != nil {
				outcome.Error = adjErr.Error()
			} else {
				outcome.Returned = true
			}
		}
		returns = append(returns, outcome)
	}

	ev, err = s.loadWithLeftovers(ctx, eventID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, notify.EventClosed, map[string]interface{}{
		"event_id":  eventID,
		"leftovers": len(leftovers),
	})
	return &CloseResult{Event: ev, Returns: returns}, nil
}

// provision runs the pipeline when one is wired. Failures are surfaced as a
// warning on the returned event, never as a request error: the event row is
// already persisted and the pipeline converges on the next run.
func (s *Service) provision(ctx context.Context, ev *Event, actor authz.Actor) {
	if s.provisioner == nil {
		return
	}
	if err := s.provisioner.Provision(ctx, ev, actor); err != nil {
		ev.ProvisionWarning = fmt.Sprintf("auto-provisioning failed: %v", err)
		if s.log != nil {
			s.log.WithError(err).WithField("event_id", ev.ID).
				Warn("Auto-provisioning failed, event saved without draft indent")
		}
		return
	}
	s.publisher.Publish(ctx, notify.EventProvisioned, map[string]interface{}{
		"event_id":    ev.ID,
		"guest_count": ev.GuestCount,
		"menu_lines":  len(ev.MenuItems),
	})
}

func (s *Service) load(ctx context.Context, eventID uint) (*Event, error) {
	var ev Event
	if err := s.db.WithContext(ctx).First(&ev, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("event %d not found", eventID)
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return &ev, nil
}

func (s *Service) loadWithLeftovers(ctx context.Context, eventID uint) (*Event, error) {
	var ev Event
	if err := s.db.WithContext(ctx).Preload("Leftovers").First(&ev, eventID).Error; err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return &ev, nil
}

func validateEventInput(name string, guestCount int, menu []MenuItem) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.Validation("event name is required")
	}
	if guestCount < MinGuestCount || guestCount > MaxGuestCount {
		return apperrors.Validation("guest count must be between %d and %d", MinGuestCount, MaxGuestCount)
	}
	return validateMenuItems(menu)
}

func validateMenuItems(menu []MenuItem) error {
	for i, item := range menu {
		if strings.TrimSpace(item.ItemName) == "" {
			return apperrors.Validation("menu item %d: name is required", i+1)
		}
		if item.QuantityPerPerson < 0 {
			return apperrors.Validation("menu item %d: quantity per person must not be negative", i+1)
		}
	}
	return nil
}
