// Package pricing holds the money math shared by booking creation, unit
// responses and search filters. All amounts are integer cents; rounding is
// half-up and applied once, to the final result.
package pricing

import "time"

// MarkupPercent is the fee added on top of a unit's base nightly cost.
const MarkupPercent = 15

// Nights returns the number of nights between start and end, minimum 1:
// a same-day start and end still books one night.
func Nights(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// TotalCostCents is the user-facing cost of staying [start, end]:
// base nightly cost times nights times the markup multiplier.
func TotalCostCents(baseCostCents int64, start, end time.Time) int64 {
	return divHalfUp(baseCostCents*int64(Nights(start, end))*(100+MarkupPercent), 100)
}

// NightlyCostCents is the displayed per-night price: base cost with markup.
func NightlyCostCents(baseCostCents int64) int64 {
	return divHalfUp(baseCostCents*(100+MarkupPercent), 100)
}

// BaseCostBoundCents converts a user-supplied price filter (markup
// included) back to a stored base-cost bound. It is the algebraic inverse
// of NightlyCostCents so that search filters line up with displayed prices.
func BaseCostBoundCents(userCostCents int64) int64 {
	return divHalfUp(userCostCents*100, 100+MarkupPercent)
}

func divHalfUp(n, d int64) int64 {
	return (2*n + d) / (2 * d)
}
