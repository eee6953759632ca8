// Package convert keeps the two linked numeric schedule columns consistent.
// A booking's conversion factor is its weight per container; editing either
// column derives the other through that factor with fixed-place rounding.
package convert

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// ContainerPlaces is the rounding precision for derived container counts.
	ContainerPlaces = 6
	// WeightPlaces is the rounding precision for derived weights.
	WeightPlaces = 4
)

// Result reports what a derivation decided about the counterpart field.
type Result int

const (
	// Unchanged means the counterpart was left alone (factor unknown or zero).
	Unchanged Result = iota
	// Set means the counterpart was derived to a new value.
	Set
	// Cleared means both fields were cleared because the edited one was.
	Cleared
)

// WeightFromContainers derives the weight for a container count. A zero
// factor leaves the weight untouched: the row stays inconsistent until a
// booking is chosen.
func WeightFromContainers(containers, factor decimal.Decimal) (decimal.Decimal, Result) {
	if factor.IsZero() {
		return decimal.Zero, Unchanged
	}
	return containers.Mul(factor).Round(WeightPlaces), Set
}

// ContainersFromWeight derives the container count for a weight. Division is
// rounded at fixed places so repeated round trips never accumulate drift.
func ContainersFromWeight(weight, factor decimal.Decimal) (decimal.Decimal, Result) {
	if factor.IsZero() {
		return decimal.Zero, Unchanged
	}
	return weight.DivRound(factor, ContainerPlaces), Set
}

// Rederive fills whichever of containers/weight is blank from the populated
// one after the booking (and thus the factor) changes. If both or neither are
// populated nothing happens.
func Rederive(containers, weight *decimal.Decimal, factor decimal.Decimal) (*decimal.Decimal, *decimal.Decimal, Result) {
	if factor.IsZero() {
		return containers, weight, Unchanged
	}
	switch {
	case containers != nil && weight == nil:
		w, res := WeightFromContainers(*containers, factor)
		if res != Set {
			return containers, weight, Unchanged
		}
		return containers, &w, Set
	case weight != nil && containers == nil:
		c, res := ContainersFromWeight(*weight, factor)
		if res != Set {
			return containers, weight, Unchanged
		}
		return &c, weight, Set
	default:
		return containers, weight, Unchanged
	}
}

// ParseAmount parses cell text into an optional decimal. Empty text is a
// cleared field, not an error.
func ParseAmount(text string) (*decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FormatAmount renders an optional decimal for a cell. Trailing zeros are
// trimmed so a derived 90.0000 shows as 90.
func FormatAmount(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
