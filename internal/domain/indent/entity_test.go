// internal/domain/indent/entity_test.go
package indent

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusDraft, StatusSubmitted, true},
		{StatusSubmitted, StatusApproved, true},
		{StatusSubmitted, StatusRejected, true},

		{StatusDraft, StatusApproved, false}, // no approval without review
		{StatusDraft, StatusRejected, false},
		{StatusApproved, StatusSubmitted, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusSubmitted, false}, // rejection is terminal
		{StatusRejected, StatusDraft, false},
		{StatusSubmitted, StatusDraft, false},
		{StatusDraft, StatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_to_%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusDraft.IsTerminal())
	assert.False(t, StatusSubmitted.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
}

func TestIsEditable(t *testing.T) {
	ind := Indent{Status: StatusDraft}
	assert.True(t, ind.IsEditable())

	for _, status := range []Status{StatusSubmitted, StatusApproved, StatusRejected} {
		ind.Status = status
		assert.False(t, ind.IsEditable(), "status %s", status)
	}
}

func TestGenerateReferenceNumber(t *testing.T) {
	ind := Indent{ID: 42, CreatedAt: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)}
	assert.Equal(t, "IND-20240305-00042", ind.GenerateReferenceNumber())
}
