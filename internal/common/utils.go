package common

import "math"

// RoundHalfUp rounds to the nearest integer with halves going toward +Inf
// (2.5 → 3, -2.5 → -2). Display and quiz answers must both use it.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
