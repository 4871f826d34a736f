// internal/domain/event/entity_test.go
package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventLifecyclePredicates(t *testing.T) {
	tests := []struct {
		status      Status
		terminal    bool
		cancellable bool
		closable    bool
	}{
		{StatusPlanned, false, true, true},
		{StatusInProgress, false, true, true},
		{StatusCompleted, true, false, false},
		{StatusCancelled, true, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			ev := Event{Status: tt.status}
			assert.Equal(t, tt.terminal, ev.IsTerminal())
			assert.Equal(t, tt.cancellable, ev.CanBeCancelled())
			assert.Equal(t, tt.closable, ev.CanBeClosed())
		})
	}
}
