// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/mortgage-calc/pkg/mathutil"
)

// WithinRelative reports whether got is within tolerance of want relative to
// the magnitude of want.
func WithinRelative(got, want, tolerance float64) bool {
	return mathutil.WithinRelativeTolerance(got, want, tolerance)
}

// IsNonDecreasing reports the first index at which values drops below its
// predecessor by more than slack, or -1 when the sequence never decreases.
func IsNonDecreasing(values []float64, slack float64) int {
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1]-slack {
			return i
		}
	}
	return -1
}

// IsNonIncreasing reports the first index at which values rises above its
// predecessor by more than slack, or -1 when the sequence never increases.
func IsNonIncreasing(values []float64, slack float64) int {
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1]+slack {
			return i
		}
	}
	return -1
}
