// internal/domain/cooking/entity_test.go
package cooking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from TaskStatus
		to   TaskStatus
		want bool
	}{
		{StatusNotStarted, StatusInProgress, true},
		{StatusNotStarted, StatusCancelled, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusOnHold, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusOnHold, StatusInProgress, true},
		{StatusOnHold, StatusCancelled, true},

		{StatusNotStarted, StatusCompleted, false}, // no completion without starting
		{StatusNotStarted, StatusOnHold, false},
		{StatusOnHold, StatusCompleted, false}, // must resume first
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusInProgress, false},
		{StatusCancelled, StatusNotStarted, false},
		{StatusInProgress, StatusInProgress, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_to_%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTaskStatusPredicates(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusNotStarted.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.False(t, StatusOnHold.IsTerminal())

	assert.True(t, StatusOnHold.IsValid())
	assert.False(t, TaskStatus("paused").IsValid())
}

func TestPriorityIsValid(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent} {
		assert.True(t, p.IsValid(), "priority %s", p)
	}
	assert.False(t, Priority("critical").IsValid())
}

func TestIsAssignedTo(t *testing.T) {
	unassigned := CookingTask{}
	assert.False(t, unassigned.IsAssignedTo(1))

	chefID := uint(5)
	task := CookingTask{AssignedToID: &chefID}
	assert.True(t, task.IsAssignedTo(5))
	assert.False(t, task.IsAssignedTo(6))
}
