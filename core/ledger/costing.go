package ledger

import "math"

// WeightedAverageCost blends the on-hand quantity and cost with an incoming
// purchase to produce the new average unit cost, rounded to one decimal place.
// A negative on-hand count is floored at zero so a miscount cannot distort the
// average. Callers guarantee incomingQty > 0.
func WeightedAverageCost(oldQty int64, oldCost float64, incomingQty int64, incomingCost float64) float64 {
	if oldQty < 0 {
		oldQty = 0
	}
	total := float64(oldQty)*oldCost + float64(incomingQty)*incomingCost
	avg := total / float64(oldQty+incomingQty)
	return math.Round(avg*10) / 10
}
