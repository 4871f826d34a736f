// internal/domain/provisioning/pipeline_test.go
package provisioning

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/catering-backend/internal/config"
	"github.com/your-org/catering-backend/internal/domain/cooking"
	"github.com/your-org/catering-backend/internal/domain/event"
	"github.com/your-org/catering-backend/internal/domain/indent"
	"github.com/your-org/catering-backend/internal/pkg/authz"
)

type fakeDrafter struct {
	eventID uint
	items   []indent.NewItem
	err     error
	calls   int
}

func (f *fakeDrafter) UpsertDraft(_ context.Context, eventID uint, items []indent.NewItem, _ authz.Actor) (*indent.Indent, error) {
	f.calls++
	f.eventID = eventID
	f.items = items
	if f.err != nil {
		return nil, f.err
	}
	return &indent.Indent{ID: 11, EventID: eventID, Status: indent.StatusDraft}, nil
}

type fakeSyncer struct {
	eventID uint
	specs   []cooking.TaskSpec
	err     error
	calls   int
}

func (f *fakeSyncer) SyncGeneratedTasks(_ context.Context, eventID uint, specs []cooking.TaskSpec, _ authz.Actor) ([]cooking.CookingTask, error) {
	f.calls++
	f.eventID = eventID
	f.specs = specs
	if f.err != nil {
		return nil, f.err
	}
	return make([]cooking.CookingTask, len(specs)), nil
}

type fakeChefs struct {
	id  *uint
	err error
}

func (f *fakeChefs) LeastLoadedChef() (*uint, error) {
	return f.id, f.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testEvent() *event.Event {
	chefID := uint(3)
	return &event.Event{
		ID:             20,
		Name:           "Mehta Wedding",
		GuestCount:     100,
		AssignedChefID: &chefID,
		MenuItems: []event.MenuItem{
			{ItemName: "Biryani", Category: "Main Course"},
			{ItemName: "Naan", Category: "Bread"},
			{ItemName: "Gulab Jamun", Category: "Dessert"},
		},
	}
}

func newTestPipeline(drafter *fakeDrafter, syncer *fakeSyncer, chefs *fakeChefs) *Pipeline {
	return NewPipeline(config.DefaultProvisionConfig(), drafter, syncer, chefs, quietLogger())
}

func TestProvisionDraftsIndentAndSyncsTasks(t *testing.T) {
	drafter := &fakeDrafter{}
	syncer := &fakeSyncer{}
	pipeline := newTestPipeline(drafter, syncer, &fakeChefs{})

	actor := authz.Actor{ID: 1, Role: authz.RoleManager}
	require.NoError(t, pipeline.Provision(context.Background(), testEvent(), actor))

	require.Equal(t, 1, drafter.calls)
	assert.Equal(t, uint(20), drafter.eventID)
	require.Len(t, drafter.items, 3)

	// Quantities arrive buffered and rounded
	byName := map[string]indent.NewItem{}
	for _, item := range drafter.items {
		byName[item.ItemName] = item
	}
	assert.Equal(t, 28.0, byName["Biryani"].Quantity) // 100 * 0.25 * 1.10
	assert.Equal(t, "kg", byName["Biryani"].Unit)
	assert.Equal(t, 240.0, byName["Naan"].Quantity) // 100 * 2 * 1.20
	assert.Equal(t, 11.0, byName["Gulab Jamun"].Quantity)

	// One task per dish, all assigned to the event's chef
	require.Equal(t, 1, syncer.calls)
	require.Len(t, syncer.specs, 3)
	for _, spec := range syncer.specs {
		require.NotNil(t, spec.AssignedToID)
		assert.Equal(t, uint(3), *spec.AssignedToID)
		assert.Equal(t, 100, spec.Servings)
	}
}

func TestProvisionTaskPrioritiesAndEstimates(t *testing.T) {
	drafter := &fakeDrafter{}
	syncer := &fakeSyncer{}
	pipeline := newTestPipeline(drafter, syncer, &fakeChefs{})

	actor := authz.Actor{ID: 1, Role: authz.RoleManager}
	require.NoError(t, pipeline.Provision(context.Background(), testEvent(), actor))

	bySpec := map[string]cooking.TaskSpec{}
	for _, spec := range syncer.specs {
		bySpec[spec.DishName] = spec
	}

	assert.Equal(t, cooking.PriorityHigh, bySpec["Biryani"].Priority)
	assert.Equal(t, 120, bySpec["Biryani"].EstimatedMinutes)
	assert.Equal(t, cooking.PriorityNormal, bySpec["Gulab Jamun"].Priority)
	assert.Equal(t, 60, bySpec["Naan"].EstimatedMinutes)
}

func TestProvisionFallsBackToLeastLoadedChef(t *testing.T) {
	fallback := uint(9)
	drafter := &fakeDrafter{}
	syncer := &fakeSyncer{}
	pipeline := newTestPipeline(drafter, syncer, &fakeChefs{id: &fallback})

	ev := testEvent()
	ev.AssignedChefID = nil

	actor := authz.Actor{ID: 1, Role: authz.RoleManager}
	require.NoError(t, pipeline.Provision(context.Background(), ev, actor))

	for _, spec := range syncer.specs {
		require.NotNil(t, spec.AssignedToID)
		assert.Equal(t, fallback, *spec.AssignedToID)
	}
}

func TestProvisionNoChefsLeavesTasksUnassigned(t *testing.T) {
	drafter := &fakeDrafter{}
	syncer := &fakeSyncer{}
	pipeline := newTestPipeline(drafter, syncer, &fakeChefs{})

	ev := testEvent()
	ev.AssignedChefID = nil

	actor := authz.Actor{ID: 1, Role: authz.RoleManager}
	require.NoError(t, pipeline.Provision(context.Background(), ev, actor))

	for _, spec := range syncer.specs {
		assert.Nil(t, spec.AssignedToID)
	}
}

func TestProvisionDeduplicatesDishes(t *testing.T) {
	drafter := &fakeDrafter{}
	syncer := &fakeSyncer{}
	pipeline := newTestPipeline(drafter, syncer, &fakeChefs{})

	ev := testEvent()
	ev.MenuItems = append(ev.MenuItems, event.MenuItem{ItemName: " biryani ", Category: "Main Course"})

	actor := authz.Actor{ID: 1, Role: authz.RoleManager}
	require.NoError(t, pipeline.Provision(context.Background(), ev, actor))

	// Duplicate menu line aggregates in the indent but yields one task
	assert.Len(t, drafter.items, 3)
	assert.Len(t, syncer.specs, 3)
}

func TestProvisionRerunIsIdempotentAtTheSeams(t *testing.T) {
	drafter := &fakeDrafter{}
	syncer := &fakeSyncer{}
	pipeline := newTestPipeline(drafter, syncer, &fakeChefs{})

	actor := authz.Actor{ID: 1, Role: authz.RoleManager}
	ev := testEvent()
	require.NoError(t, pipeline.Provision(context.Background(), ev, actor))
	firstItems := drafter.items

	ev.GuestCount = 150
	require.NoError(t, pipeline.Provision(context.Background(), ev, actor))

	// Same draft endpoint reused with recomputed quantities
	assert.Equal(t, 2, drafter.calls)
	assert.Equal(t, 2, syncer.calls)
	assert.NotEqual(t, firstItems, drafter.items)
}

func TestProvisionSkipsTasksWhenDisabled(t *testing.T) {
	cfg := config.DefaultProvisionConfig()
	cfg.AutoCreateTasks = false

	drafter := &fakeDrafter{}
	syncer := &fakeSyncer{}
	pipeline := NewPipeline(cfg, drafter, syncer, &fakeChefs{}, quietLogger())

	actor := authz.Actor{ID: 1, Role: authz.RoleManager}
	require.NoError(t, pipeline.Provision(context.Background(), testEvent(), actor))

	assert.Equal(t, 1, drafter.calls)
	assert.Equal(t, 0, syncer.calls)
}

func TestProvisionEmptyMenuIsNoOp(t *testing.T) {
	drafter := &fakeDrafter{}
	syncer := &fakeSyncer{}
	pipeline := newTestPipeline(drafter, syncer, &fakeChefs{})

	ev := testEvent()
	ev.MenuItems = nil

	actor := authz.Actor{ID: 1, Role: authz.RoleManager}
	require.NoError(t, pipeline.Provision(context.Background(), ev, actor))

	assert.Equal(t, 0, drafter.calls)
	assert.Equal(t, 0, syncer.calls)
}

func TestProvisionPropagatesDraftError(t *testing.T) {
	drafter := &fakeDrafter{err: errors.New("draft locked")}
	syncer := &fakeSyncer{}
	pipeline := newTestPipeline(drafter, syncer, &fakeChefs{})

	actor := authz.Actor{ID: 1, Role: authz.RoleManager}
	err := pipeline.Provision(context.Background(), testEvent(), actor)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "draft locked")
	assert.Equal(t, 0, syncer.calls)
}
