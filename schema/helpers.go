package schema

import "math"

// Round2 rounds v to two decimal places. Scores and rates are persisted with
// this precision so recomputation is byte-stable.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clamp limits v to the [lo, hi] interval.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
