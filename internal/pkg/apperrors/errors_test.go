// internal/pkg/apperrors/errors_test.go
package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	err := InsufficientStock("need %g kg of %s", 5.0, "paneer")

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindInsufficientStock, kind)
	assert.Equal(t, "need 5 kg of paneer", err.Error())

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := NotFound("event %d not found", 42)
	wrapped := fmt.Errorf("loading indent: %w", inner)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, kind)
}

func TestErrorsIsMatchesByKind(t *testing.T) {
	err := Conflict("indent 3 was modified concurrently")

	assert.True(t, errors.Is(err, Conflict("")))
	assert.False(t, errors.Is(err, Validation("")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(Conflict("stock update failed"), cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
