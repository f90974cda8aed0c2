// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/mortgage-calc/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// Cents converts a value to a decimal rounded half away from zero to the
// cent. NaN and infinities, which the calculators can produce for
// pathological inputs, become zero.
func Cents(val float64) decimal.Decimal {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(val).Round(2)
}

// WithinRelativeTolerance checks whether val1 is within tolerance of val2
// relative to the magnitude of val2. A zero reference falls back to an
// absolute comparison.
func WithinRelativeTolerance(val1, val2, tolerance float64) bool {
	if val2 == 0 {
		return math.Abs(val1) <= tolerance
	}
	return math.Abs(val1-val2)/math.Abs(val2) <= tolerance
}

// FloorZero clamps negative values to zero.
func FloorZero(val float64) float64 {
	if val < 0 {
		return 0
	}
	return val
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}
