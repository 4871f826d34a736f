// internal/domain/quantity/calculator.go
package quantity

import (
	"math"
	"sort"
	"strings"

	"github.com/your-org/catering-backend/internal/config"
)

// MenuLine is one line of an event menu as the calculator sees it. A
// positive PerGuest overrides the configured base quantity for that line.
type MenuLine struct {
	ItemName string
	Category string
	Unit     string
	PerGuest float64
}

// Requirement is one buffered procurement line derived from the menu.
type Requirement struct {
	ItemName string
	Category string
	Quantity float64
	Unit     string
}

// Calculator converts an event menu and guest count into buffered
// procurement quantities. It is pure: same inputs, same output, no side
// effects, and the input order of menu lines does not matter.
type Calculator struct {
	cfg config.ProvisionConfig
}

// NewCalculator creates a calculator with explicit provisioning parameters.
func NewCalculator(cfg config.ProvisionConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Normalize lowercases and trims a name so duplicate menu lines aggregate
// under one key.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Calculate derives the procurement list for guestCount guests. Lines that
// normalize to the same (name, category) key are summed first; the safety
// buffer is applied once to the aggregated total, then rounded up to whole
// units. Applying the buffer per occurrence would compound it.
func (c *Calculator) Calculate(lines []MenuLine, guestCount int) []Requirement {
	if guestCount <= 0 || len(lines) == 0 {
		return nil
	}

	type aggregate struct {
		itemName string
		category string
		unit     string
		raw      float64
	}

	totals := make(map[[2]string]*aggregate)
	order := make([][2]string, 0, len(lines))

	for _, line := range lines {
		name := Normalize(line.ItemName)
		category := Normalize(line.Category)
		if name == "" {
			continue
		}

		base := c.baseFor(name, category, line.Unit)
		if line.PerGuest > 0 {
			base.PerGuest = line.PerGuest
			if unit := Normalize(line.Unit); unit != "" {
				base.Unit = unit
			}
		}
		key := [2]string{name, category}
		agg, ok := totals[key]
		if !ok {
			agg = &aggregate{
				itemName: strings.TrimSpace(line.ItemName),
				category: strings.TrimSpace(line.Category),
				unit:     base.Unit,
			}
			totals[key] = agg
			order = append(order, key)
		}
		agg.raw += base.PerGuest * float64(guestCount)
	}

	// Sort by (category, name) so permuted input yields an identical list.
	sortKeys(order)

	requirements := make([]Requirement, 0, len(order))
	for _, key := range order {
		agg := totals[key]
		buffered := agg.raw * (1 + c.bufferFor(key[1])/100)
		requirements = append(requirements, Requirement{
			ItemName: agg.itemName,
			Category: agg.category,
			Quantity: math.Ceil(buffered),
			Unit:     agg.unit,
		})
	}
	return requirements
}

// baseFor resolves the per-guest base quantity: item override wins over the
// category default; a menu line with an unknown category falls back to one
// unit per guest in the line's own unit.
func (c *Calculator) baseFor(name, category, lineUnit string) config.BaseQuantity {
	if base, ok := c.cfg.ItemOverrides[name]; ok {
		return base
	}
	if base, ok := c.cfg.BaseQuantities[category]; ok {
		return base
	}
	unit := Normalize(lineUnit)
	if unit == "" {
		unit = "pc"
	}
	return config.BaseQuantity{PerGuest: 1, Unit: unit}
}

// bufferFor resolves the safety buffer percentage for a category.
func (c *Calculator) bufferFor(category string) float64 {
	if pct, ok := c.cfg.CategoryBuffers[category]; ok {
		return pct
	}
	return c.cfg.DefaultBufferPercent
}

func sortKeys(keys [][2]string) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][1] != keys[j][1] {
			return keys[i][1] < keys[j][1]
		}
		return keys[i][0] < keys[j][0]
	})
}
