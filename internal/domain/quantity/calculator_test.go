// internal/domain/quantity/calculator_test.go
package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/catering-backend/internal/config"
)

func testCalculator() *Calculator {
	return NewCalculator(config.DefaultProvisionConfig())
}

func TestCalculateMainCourse(t *testing.T) {
	calc := testCalculator()

	// 100 guests x 0.25 kg, 10% buffer: 25 -> 27.5 -> ceil 28
	reqs := calc.Calculate([]MenuLine{
		{ItemName: "Biryani", Category: "Main Course"},
	}, 100)

	require.Len(t, reqs, 1)
	assert.Equal(t, "Biryani", reqs[0].ItemName)
	assert.Equal(t, 28.0, reqs[0].Quantity)
	assert.Equal(t, "kg", reqs[0].Unit)
}

func TestCalculateBufferAppliedOnceToAggregate(t *testing.T) {
	calc := testCalculator()

	// Duplicate menu lines aggregate before buffering. Two naan lines for
	// 50 guests: (100 + 100) * 1.20 = 240, not 120 + 120 buffered twice
	// over rounding.
	reqs := calc.Calculate([]MenuLine{
		{ItemName: "Naan", Category: "Bread"},
		{ItemName: "naan ", Category: "Bread"},
	}, 50)

	require.Len(t, reqs, 1)
	assert.Equal(t, 240.0, reqs[0].Quantity)
	assert.Equal(t, "pc", reqs[0].Unit)
}

func TestCalculateOrderIndependence(t *testing.T) {
	calc := testCalculator()

	menu := []MenuLine{
		{ItemName: "Gulab Jamun", Category: "Dessert"},
		{ItemName: "Paneer Tikka", Category: "Starter"},
		{ItemName: "Biryani", Category: "Main Course"},
		{ItemName: "Naan", Category: "Bread"},
	}
	reversed := []MenuLine{menu[3], menu[2], menu[1], menu[0]}

	forward := calc.Calculate(menu, 80)
	backward := calc.Calculate(reversed, 80)

	assert.Equal(t, forward, backward)
}

func TestCalculateCategoryBuffers(t *testing.T) {
	calc := testCalculator()

	tests := []struct {
		name     string
		line     MenuLine
		guests   int
		expected float64
		unit     string
	}{
		{
			name:     "starter 15 percent",
			line:     MenuLine{ItemName: "Samosa Chaat", Category: "Starter"},
			guests:   100,
			expected: 12, // 10 * 1.15 = 11.5 -> 12
			unit:     "kg",
		},
		{
			name:     "bread 20 percent",
			line:     MenuLine{ItemName: "Roti", Category: "Bread"},
			guests:   10,
			expected: 24, // 20 * 1.20
			unit:     "pc",
		},
		{
			name:     "beverage 5 percent",
			line:     MenuLine{ItemName: "Lassi", Category: "Beverage"},
			guests:   40,
			expected: 11, // 10 * 1.05 = 10.5 -> 11
			unit:     "l",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs := calc.Calculate([]MenuLine{tt.line}, tt.guests)
			require.Len(t, reqs, 1)
			assert.Equal(t, tt.expected, reqs[0].Quantity)
			assert.Equal(t, tt.unit, reqs[0].Unit)
		})
	}
}

func TestCalculateItemOverrideWinsOverCategory(t *testing.T) {
	calc := testCalculator()

	// Rice override is 0.20 kg/guest even when filed under a category with
	// a different base.
	reqs := calc.Calculate([]MenuLine{
		{ItemName: "Rice", Category: "Staple"},
	}, 100)

	require.Len(t, reqs, 1)
	assert.Equal(t, 22.0, reqs[0].Quantity) // 20 * 1.10
}

func TestCalculateExplicitPerGuestOverride(t *testing.T) {
	calc := testCalculator()

	reqs := calc.Calculate([]MenuLine{
		{ItemName: "Signature Curry", Category: "Main Course", PerGuest: 0.4, Unit: "kg"},
	}, 50)

	require.Len(t, reqs, 1)
	assert.Equal(t, 22.0, reqs[0].Quantity) // 20 * 1.10
	assert.Equal(t, "kg", reqs[0].Unit)
}

func TestCalculateUnknownCategoryFallback(t *testing.T) {
	calc := testCalculator()

	// Unknown category: one unit per guest in the line's unit, default
	// buffer.
	reqs := calc.Calculate([]MenuLine{
		{ItemName: "Party Favor", Category: "Misc", Unit: "pc"},
	}, 30)

	require.Len(t, reqs, 1)
	assert.Equal(t, 33.0, reqs[0].Quantity) // 30 * 1.10
	assert.Equal(t, "pc", reqs[0].Unit)
}

func TestCalculateEmptyInputs(t *testing.T) {
	calc := testCalculator()

	assert.Nil(t, calc.Calculate(nil, 100))
	assert.Nil(t, calc.Calculate([]MenuLine{{ItemName: "Naan", Category: "Bread"}}, 0))
	assert.Nil(t, calc.Calculate([]MenuLine{{ItemName: "Naan", Category: "Bread"}}, -5))

	// Blank names are skipped entirely
	reqs := calc.Calculate([]MenuLine{{ItemName: "   ", Category: "Bread"}}, 10)
	assert.Empty(t, reqs)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "chicken biryani", Normalize("  Chicken Biryani "))
	assert.Equal(t, "", Normalize("   "))
}
