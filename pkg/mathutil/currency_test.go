package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Nearly two cents", 0.019, 0.02},
		{"Monthly payment", 2456.349969125868, 2456.35},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCents(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"Monthly payment", 2456.349969125868, "2456.35"},
		{"Whole dollars", 400000, "400000"},
		{"Negative", -12.344, "-12.34"},
		{"NaN", math.NaN(), "0"},
		{"Positive infinity", math.Inf(1), "0"},
		{"Negative infinity", math.Inf(-1), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Cents(tt.input)
			if result.String() != tt.expected {
				t.Errorf("Cents(%v) = %s, expected %s", tt.input, result.String(), tt.expected)
			}
		})
	}
}

func TestWithinRelativeTolerance(t *testing.T) {
	tests := []struct {
		name      string
		val1      float64
		val2      float64
		tolerance float64
		expected  bool
	}{
		{"Identical", 400000, 400000, 1e-6, true},
		{"Within one part per million", 400000.3, 400000, 1e-6, true},
		{"Outside one part per million", 400001, 400000, 1e-6, false},
		{"Zero reference small value", 1e-9, 0, 1e-6, true},
		{"Zero reference large value", 1, 0, 1e-6, false},
		{"Negative reference", -100.00001, -100, 1e-6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WithinRelativeTolerance(tt.val1, tt.val2, tt.tolerance)
			if result != tt.expected {
				t.Errorf("WithinRelativeTolerance(%v, %v, %v) = %v, expected %v",
					tt.val1, tt.val2, tt.tolerance, result, tt.expected)
			}
		})
	}
}

func TestFloorZero(t *testing.T) {
	if got := FloorZero(-5); got != 0 {
		t.Errorf("FloorZero(-5) = %v, expected 0", got)
	}
	if got := FloorZero(5); got != 5 {
		t.Errorf("FloorZero(5) = %v, expected 5", got)
	}
}

func TestMinMax(t *testing.T) {
	if got := Min(2, 3); got != 2 {
		t.Errorf("Min(2, 3) = %v, expected 2", got)
	}
	if got := Max(2, 3); got != 3 {
		t.Errorf("Max(2, 3) = %v, expected 3", got)
	}
	if got := Max(5.5+2, 5.25); got != 7.5 {
		t.Errorf("Max(7.5, 5.25) = %v, expected 7.5", got)
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		total    float64
		expected float64
	}{
		{"Twenty percent", 100000, 500000, 20},
		{"Zero total", 100, 0, 0},
		{"Full", 50, 50, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePercentage(tt.value, tt.total)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v", tt.value, tt.total, result, tt.expected)
			}
		})
	}
}
