// internal/domain/provisioning/pipeline.go
package provisioning

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/catering-backend/internal/config"
	"github.com/your-org/catering-backend/internal/domain/cooking"
	"github.com/your-org/catering-backend/internal/domain/event"
	"github.com/your-org/catering-backend/internal/domain/indent"
	"github.com/your-org/catering-backend/internal/domain/quantity"
	"github.com/your-org/catering-backend/internal/pkg/authz"
)

// IndentDrafter writes the derived procurement list into the event's draft
// indent. The indent service implements it.
type IndentDrafter interface {
	UpsertDraft(ctx context.Context, eventID uint, items []indent.NewItem, actor authz.Actor) (*indent.Indent, error)
}

// TaskSyncer reconciles auto-generated cooking tasks for an event. The
// cooking service implements it.
type TaskSyncer interface {
	SyncGeneratedTasks(ctx context.Context, eventID uint, specs []cooking.TaskSpec, actor authz.Actor) ([]cooking.CookingTask, error)
}

// ChefFinder picks a fallback assignee for generated tasks when the event
// has no chef of its own. The user service implements it.
type ChefFinder interface {
	LeastLoadedChef() (*uint, error)
}

// Pipeline turns an event's menu into a draft indent and a set of cooking
// tasks. Running it again for the same event updates both in place, so a
// guest count or menu change converges instead of duplicating.
type Pipeline struct {
	cfg        config.ProvisionConfig
	calculator *quantity.Calculator
	indents    IndentDrafter
	tasks      TaskSyncer
	chefs      ChefFinder
	log        *logrus.Logger
}

// NewPipeline creates the auto-provisioning pipeline
func NewPipeline(cfg config.ProvisionConfig, indents IndentDrafter, tasks TaskSyncer, chefs ChefFinder, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		calculator: quantity.NewCalculator(cfg),
		indents:    indents,
		tasks:      tasks,
		chefs:      chefs,
		log:        log,
	}
}

// Provision derives quantities from the event menu, upserts the draft
// indent, and reconciles generated cooking tasks. Implements the event
// service's provisioner hook.
func (p *Pipeline) Provision(ctx context.Context, ev *event.Event, actor authz.Actor) error {
	if len(ev.MenuItems) == 0 {
		return nil
	}

	lines := make([]quantity.MenuLine, 0, len(ev.MenuItems))
	for _, mi := range ev.MenuItems {
		lines = append(lines, quantity.MenuLine{
			ItemName: mi.ItemName,
			Category: mi.Category,
			Unit:     mi.Unit,
			PerGuest: mi.QuantityPerPerson,
		})
	}

	requirements := p.calculator.Calculate(lines, ev.GuestCount)
	if len(requirements) == 0 {
		return nil
	}

	items := make([]indent.NewItem, 0, len(requirements))
	for _, req := range requirements {
		items = append(items, indent.NewItem{
			ItemName: req.ItemName,
			Category: req.Category,
			Quantity: req.Quantity,
			Unit:     req.Unit,
		})
	}

	ind, err := p.indents.UpsertDraft(ctx, ev.ID, items, actor)
	if err != nil {
		return fmt.Errorf("failed to draft indent: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"event_id":    ev.ID,
		"indent_id":   ind.ID,
		"guest_count": ev.GuestCount,
		"items":       len(items),
	}).Info("Provisioned draft indent")

	if !p.cfg.AutoCreateTasks {
		return nil
	}

	specs, err := p.taskSpecs(ev)
	if err != nil {
		return err
	}
	synced, err := p.tasks.SyncGeneratedTasks(ctx, ev.ID, specs, actor)
	if err != nil {
		return fmt.Errorf("failed to sync cooking tasks: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"event_id": ev.ID,
		"tasks":    len(synced),
	}).Info("Synced generated cooking tasks")
	return nil
}

// taskSpecs builds one task per distinct menu dish. The event's chef gets
// every task; without one the least loaded active chef does.
func (p *Pipeline) taskSpecs(ev *event.Event) ([]cooking.TaskSpec, error) {
	assignee := ev.AssignedChefID
	if assignee == nil {
		fallback, err := p.chefs.LeastLoadedChef()
		if err != nil {
			return nil, fmt.Errorf("failed to pick fallback chef: %w", err)
		}
		assignee = fallback
	}

	seen := make(map[string]bool, len(ev.MenuItems))
	specs := make([]cooking.TaskSpec, 0, len(ev.MenuItems))
	for _, mi := range ev.MenuItems {
		key := quantity.Normalize(mi.ItemName)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		specs = append(specs, cooking.TaskSpec{
			DishName:         mi.ItemName,
			Category:         mi.Category,
			Servings:         ev.GuestCount,
			Priority:         priorityFor(mi.Category),
			AssignedToID:     assignee,
			EstimatedMinutes: p.estimateFor(mi.Category),
		})
	}
	return specs, nil
}

func (p *Pipeline) estimateFor(category string) int {
	if minutes, ok := p.cfg.TaskEstimateMinutes[quantity.Normalize(category)]; ok {
		return minutes
	}
	return p.cfg.DefaultTaskMinutes
}

// priorityFor ranks dishes so the kitchen starts the long-lead courses
// first.
func priorityFor(category string) cooking.Priority {
	switch quantity.Normalize(category) {
	case "main course":
		return cooking.PriorityHigh
	case "dessert", "starter":
		return cooking.PriorityNormal
	case "beverage", "condiment":
		return cooking.PriorityLow
	default:
		return cooking.PriorityNormal
	}
}
