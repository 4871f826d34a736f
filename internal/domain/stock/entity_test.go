// internal/domain/stock/entity_test.go
package stock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUpdateTypeDirection(t *testing.T) {
	tests := []struct {
		updateType UpdateType
		decreases  bool
		increases  bool
	}{
		{UpdateTypeAdded, false, true},
		{UpdateTypeReturned, false, true},
		{UpdateTypeUsed, true, false},
		{UpdateTypeExpired, true, false},
		{UpdateTypeAdjusted, false, false}, // signed, direction comes from the request
	}

	for _, tt := range tests {
		t.Run(string(tt.updateType), func(t *testing.T) {
			assert.True(t, tt.updateType.IsValid())
			assert.Equal(t, tt.decreases, tt.updateType.Decreases())
			assert.Equal(t, tt.increases, tt.updateType.Increases())
		})
	}

	assert.False(t, UpdateType("stolen").IsValid())
}

func TestIsLowStock(t *testing.T) {
	item := Stock{Quantity: 5, MinStock: 10}
	assert.True(t, item.IsLowStock())

	item.Quantity = 10
	assert.True(t, item.IsLowStock()) // at threshold counts as low

	item.Quantity = 10.5
	assert.False(t, item.IsLowStock())
}

func TestExpiryChecks(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	window := 7 * 24 * time.Hour

	fresh := Stock{}
	assert.False(t, fresh.IsExpired(now))
	assert.False(t, fresh.IsExpiringSoon(now, window))

	past := now.Add(-time.Hour)
	expired := Stock{ExpiryDate: &past}
	assert.True(t, expired.IsExpired(now))
	assert.False(t, expired.IsExpiringSoon(now, window)) // already expired, not "soon"

	inThreeDays := now.Add(3 * 24 * time.Hour)
	expiring := Stock{ExpiryDate: &inThreeDays}
	assert.False(t, expiring.IsExpired(now))
	assert.True(t, expiring.IsExpiringSoon(now, window))

	inTwoWeeks := now.Add(14 * 24 * time.Hour)
	farOut := Stock{ExpiryDate: &inTwoWeeks}
	assert.False(t, farOut.IsExpiringSoon(now, window))
}

func TestCanFulfill(t *testing.T) {
	item := Stock{Quantity: 20, IsActive: true}
	assert.True(t, item.CanFulfill(20))
	assert.False(t, item.CanFulfill(20.1))

	item.IsActive = false
	assert.False(t, item.CanFulfill(5))
}

func TestReplayReproducesQuantity(t *testing.T) {
	// A complete ledger replays to the current quantity from zero.
	updates := []StockUpdate{
		{Type: UpdateTypeAdded, Quantity: 50, QuantityChange: 50},
		{Type: UpdateTypeUsed, Quantity: 12.5, QuantityChange: -12.5},
		{Type: UpdateTypeReturned, Quantity: 2, QuantityChange: 2},
		{Type: UpdateTypeExpired, Quantity: 4, QuantityChange: -4},
		{Type: UpdateTypeAdjusted, Quantity: 0.5, QuantityChange: -0.5},
	}

	assert.Equal(t, 35.0, Replay(0, updates))
	assert.Equal(t, 45.0, Replay(10, updates))
	assert.Equal(t, 7.0, Replay(7, nil))
}
