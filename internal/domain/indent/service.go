// internal/domain/indent/service.go
package indent

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

// AvailabilityChecker matches a requirement against warehouse stock. The
// stock service implements it.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, itemName string, required float64) (bool, *uint, error)
}

// Service handles indent lifecycle business logic
type Service struct {
	db        *gorm.DB
	config    *config.Config
	stock     AvailabilityChecker
	publisher notify.Publisher
}

// NewService creates a new indent service
func NewService(db *gorm.DB, cfg *config.Config, stock AvailabilityChecker, publisher notify.Publisher) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		stock:     stock,
		publisher: publisher,
	}
}

// NewItem is one procurement line of a create or replace request
type NewItem struct {
	ItemName string  `json:"item_name" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required"`
	Unit     string  `json:"unit" binding:"required"`
	Notes    string  `json:"notes,omitempty"`
}

// eventRow is the slice of the events table the indent lifecycle needs.
type eventRow struct {
	ID             uint
	Status         string
	AssignedChefID *uint
}

func (eventRow) TableName() string { return "events" }

// Create creates a DRAFT indent with all its items as one atomic operation.
// A failure while writing items rolls the header back; no orphan header
// survives. Each item's stock availability is snapshotted at creation time.
func (s *Service) Create(ctx context.Context, eventID uint, items []NewItem, actor authz.Actor) (*Indent, error) {
	if !actor.Can(authz.RoleManager) {
		return nil, apperrors.PermissionDenied("role %s cannot create indents", actor.Role)
	}
	if err := s.checkEvent(ctx, eventID); err != nil {
		return nil, err
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	var draftCount int64
	if err := s.db.WithContext(ctx).Model(&Indent{}).
		Where("event_id = ? AND status = ?", eventID, StatusDraft).
		Count(&draftCount).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing drafts: %w", err)
	}
	if draftCount > 0 {
		return nil, apperrors.Conflict("event %d already has a draft indent", eventID)
	}

	rows, err := s.snapshotItems(ctx, items)
	if err != nil {
		return nil, err
	}

	ind := &Indent{
		EventID:    eventID,
		Status:     StatusDraft,
		TotalItems: len(rows),
		CreatedBy:  actor.ID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ind).Error; err != nil {
			return fmt.Errorf("failed to create indent: %w", err)
		}

		ind.ReferenceNumber = ind.GenerateReferenceNumber()
		if err := tx.Model(ind).Update("reference_number", ind.ReferenceNumber).Error; err != nil {
			return fmt.Errorf("failed to set reference number: %w", err)
		}

		for i := range rows {
			rows[i].IndentID = ind.ID
			if err := tx.Create(&rows[i]).Error; err != nil {
				return fmt.Errorf("failed to create indent item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ind.Items = rows
	return ind, nil
}

// ReplaceItems swaps the full item set of a DRAFT indent, preserving the
// indent id. Availability snapshots are refreshed.
func (s *Service) ReplaceItems(ctx context.Context, indentID uint, items []NewItem, actor authz.Actor) (*Indent, error) {
	if !actor.Can(authz.RoleManager) {
		return nil, apperrors.PermissionDenied("role %s cannot modify indents", actor.Role)
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	ind, err := s.load(ctx, indentID)
	if err != nil {
		return nil, err
	}
	if !ind.IsEditable() {
		return nil, apperrors.InvalidStateTransition("indent %d is %s; items can only change while draft", indentID, ind.Status)
	}

	rows, err := s.snapshotItems(ctx, items)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guard on DRAFT inside the transaction so a concurrent submit wins
		// or loses atomically.
		result := tx.Model(&Indent{}).
			Where("id = ? AND status = ?", indentID, StatusDraft).
			Updates(map[string]interface{}{"total_items": len(rows), "updated_at": time.Now().UTC()})
		if result.Error != nil {
			return fmt.Errorf("failed to update indent: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Conflict("indent %d was modified concurrently", indentID)
		}

		if err := tx.Where("indent_id = ?", indentID).Delete(&IndentItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete indent items: %w", err)
		}
		for i := range rows {
			rows[i].IndentID = indentID
			if err := tx.Create(&rows[i]).Error; err != nil {
				return fmt.Errorf("failed to create indent item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ind.TotalItems = len(rows)
	ind.Items = rows
	return ind, nil
}

// UpsertDraft is the pipeline entry point: replace the event's existing
// draft in place, or create one. Running it twice with unchanged inputs
// produces the same item set.
func (s *Service) UpsertDraft(ctx context.Context, eventID uint, items []NewItem, actor authz.Actor) (*Indent, error) {
	var existing Indent
	err := s.db.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, StatusDraft).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.Create(ctx, eventID, items, actor)
		}
		return nil, fmt.Errorf("failed to look up draft indent: %w", err)
	}
	return s.ReplaceItems(ctx, existing.ID, items, actor)
}

// Submit moves a DRAFT indent to SUBMITTED.
func (s *Service) Submit(ctx context.Context, indentID uint, actor authz.Actor) (*Indent, error) {
	return s.transition(ctx, indentID, StatusSubmitted, actor)
}

// Approve moves a SUBMITTED indent to APPROVED.
func (s *Service) Approve(ctx context.Context, indentID uint, actor authz.Actor) (*Indent, error) {
	return s.transition(ctx, indentID, StatusApproved, actor)
}

// Reject moves a SUBMITTED indent to REJECTED. Rejected indents stay for
// audit; resubmission means a new draft.
func (s *Service) Reject(ctx context.Context, indentID uint, actor authz.Actor) (*Indent, error) {
	return s.transition(ctx, indentID, StatusRejected, actor)
}

// MarkItemReceived marks one item as received, optionally correcting the
// quantity to what actually arrived. It never touches the stock ledger;
// receiving into the warehouse is a separate explicit ADDED adjustment.
func (s *Service) MarkItemReceived(ctx context.Context, indentID, itemID uint, actualQuantity *float64, actor authz.Actor) (*IndentItem, error) {
	if !actor.Can(authz.RoleManager) {
		return nil, apperrors.PermissionDenied("role %s cannot receive indent items", actor.Role)
	}

	ind, err := s.load(ctx, indentID)
	if err != nil {
		return nil, err
	}
	if ind.Status == StatusDraft || ind.Status == StatusRejected {
		return nil, apperrors.InvalidStateTransition("indent %d is %s; items are received after submission", indentID, ind.Status)
	}

	var item IndentItem
	if err := s.db.WithContext(ctx).
		Where("id = ? AND indent_id = ?", itemID, indentID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("indent item %d not found", itemID)
		}
		return nil, fmt.Errorf("failed to load indent item: %w", err)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"is_received": true,
		"received_at": now,
	}
	if actualQuantity != nil {
		if *actualQuantity <= 0 {
			return nil, apperrors.Validation("received quantity must be positive")
		}
		updates["quantity"] = *actualQuantity
		item.Quantity = *actualQuantity
	}

	if err := s.db.WithContext(ctx).Model(&item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to mark item received: %w", err)
	}

	item.IsReceived = true
	item.ReceivedAt = &now
	return &item, nil
}

// Delete removes a DRAFT indent together with its items.
func (s *Service) Delete(ctx context.Context, indentID uint, actor authz.Actor) error {
	if !actor.Can(authz.RoleManager) {
		return apperrors.PermissionDenied("role %s cannot delete indents", actor.Role)
	}

	ind, err := s.load(ctx, indentID)
	if err != nil {
		return err
	}
	if !ind.IsEditable() {
		return apperrors.InvalidStateTransition("indent %d is %s and cannot be deleted", indentID, ind.Status)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND status = ?", indentID, StatusDraft).Delete(&Indent{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete indent: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Conflict("indent %d was modified concurrently", indentID)
		}
		if err := tx.Where("indent_id = ?", indentID).Delete(&IndentItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete indent items: %w", err)
		}
		return nil
	})
}

// GetIndent retrieves one indent with its items, within the actor's scope.
func (s *Service) GetIndent(ctx context.Context, indentID uint, actor authz.Actor) (*Indent, error) {
	query := s.db.WithContext(ctx).Preload("Items").Where("indents.id = ?", indentID)
	query = s.scoped(query, actor)

	var ind Indent
	if err := query.First(&ind).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("indent %d not found", indentID)
		}
		return nil, fmt.Errorf("failed to load indent: %w", err)
	}
	return &ind, nil
}

// ListIndents retrieves indents within the actor's scope.
func (s *Service) ListIndents(ctx context.Context, eventID uint, status Status, actor authz.Actor) ([]Indent, error) {
	query := s.db.WithContext(ctx).Model(&Indent{}).Preload("Items").Order("indents.created_at DESC")
	if eventID > 0 {
		query = query.Where("indents.event_id = ?", eventID)
	}
	if status != "" {
		query = query.Where("indents.status = ?", status)
	}
	query = s.scoped(query, actor)

	var indents []Indent
	if err := query.Find(&indents).Error; err != nil {
		return nil, fmt.Errorf("failed to list indents: %w", err)
	}
	return indents, nil
}

// scoped narrows reads to the actor's visibility: chefs only see indents of
// events they are assigned to. Out-of-scope rows read as absent.
func (s *Service) scoped(query *gorm.DB, actor authz.Actor) *gorm.DB {
	if actor.SeesEverything() {
		return query
	}
	return query.
		Joins("JOIN events ON events.id = indents.event_id").
		Where("events.assigned_chef_id = ?", actor.ID)
}

// transition applies one lifecycle edge with an optimistic guard on the
// expected source state.
func (s *Service) transition(ctx context.Context, indentID uint, to Status, actor authz.Actor) (*Indent, error) {
	if !actor.Can(authz.RoleManager) {
		return nil, apperrors.PermissionDenied("role %s cannot change indent status", actor.Role)
	}

	ind, err := s.load(ctx, indentID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(ind.Status, to) {
		return nil, apperrors.InvalidStateTransition("indent cannot move from %s to %s", ind.Status, to)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{"status": to}
	switch to {
	case StatusSubmitted:
		updates["submitted_at"] = now
	case StatusApproved, StatusRejected:
		updates["decided_at"] = now
	}

	result := s.db.WithContext(ctx).Model(&Indent{}).
		Where("id = ? AND status = ?", indentID, ind.Status).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update indent status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.Conflict("indent %d was modified concurrently", indentID)
	}

	ind.Status = to
	switch to {
	case StatusSubmitted:
		ind.SubmittedAt = &now
		s.publisher.Publish(ctx, notify.IndentSubmitted, transitionPayload(ind))
	case StatusApproved:
		ind.DecidedAt = &now
		s.publisher.Publish(ctx, notify.IndentApproved, transitionPayload(ind))
	case StatusRejected:
		ind.DecidedAt = &now
		s.publisher.Publish(ctx, notify.IndentRejected, transitionPayload(ind))
	}
	return ind, nil
}

func transitionPayload(ind *Indent) map[string]interface{} {
	return map[string]interface{}{
		"indent_id":        ind.ID,
		"reference_number": ind.ReferenceNumber,
		"event_id":         ind.EventID,
		"status":           ind.Status,
	}
}

// snapshotItems validates lines and takes the availability snapshot for
// each one.
func (s *Service) snapshotItems(ctx context.Context, items []NewItem) ([]IndentItem, error) {
	rows := make([]IndentItem, 0, len(items))
	for _, item := range items {
		inStock, stockID, err := s.stock.CheckAvailability(ctx, item.ItemName, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to check stock for %q: %w", item.ItemName, err)
		}
		rows = append(rows, IndentItem{
			ItemName:  strings.TrimSpace(item.ItemName),
			Category:  strings.TrimSpace(item.Category),
			Quantity:  item.Quantity,
			Unit:      strings.TrimSpace(item.Unit),
			IsInStock: inStock,
			StockID:   stockID,
			Notes:     item.Notes,
		})
	}
	return rows, nil
}

// checkEvent verifies the target event exists and still accepts indents.
func (s *Service) checkEvent(ctx context.Context, eventID uint) error {
	var row eventRow
	err := s.db.WithContext(ctx).Select("id, status, assigned_chef_id").
		Where("id = ?", eventID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("event %d not found", eventID)
		}
		return fmt.Errorf("failed to load event: %w", err)
	}
	if row.Status == "completed" || row.Status == "cancelled" {
		return apperrors.InvalidStateTransition("event %d is %s and cannot take new indents", eventID, row.Status)
	}
	return nil
}

func validateItems(items []NewItem) error {
	if len(items) == 0 {
		return apperrors.Validation("indent must contain at least one item")
	}
	for i, item := range items {
		if strings.TrimSpace(item.ItemName) == "" {
			return apperrors.Validation("item %d: name is required", i+1)
		}
		if strings.TrimSpace(item.Category) == "" {
			return apperrors.Validation("item %d: category is required", i+1)
		}
		if item.Quantity <= 0 {
			return apperrors.Validation("item %d: quantity must be positive", i+1)
		}
		if strings.TrimSpace(item.Unit) == "" {
			return apperrors.Validation("item %d: unit is required", i+1)
		}
	}
	return nil
}

// load fetches the header without scope, for internal lifecycle checks.
func (s *Service) load(ctx context.Context, indentID uint) (*Indent, error) {
	var ind Indent
	if err := s.db.WithContext(ctx).First(&ind, indentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("indent %d not found", indentID)
		}
		return nil, fmt.Errorf("failed to load indent: %w", err)
	}
	return &ind, nil
}
