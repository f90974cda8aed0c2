package testutil

import (
	"testing"
)

func TestWithinRelative(t *testing.T) {
	if !WithinRelative(400000.1, 400000, 1e-6) {
		t.Error("expected 400000.1 to be within 1e-6 of 400000")
	}
	if WithinRelative(400001, 400000, 1e-6) {
		t.Error("expected 400001 not to be within 1e-6 of 400000")
	}
}

func TestIsNonDecreasing(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		slack    float64
		expected int
	}{
		{"Empty", nil, 0, -1},
		{"Strictly increasing", []float64{1, 2, 3}, 0, -1},
		{"Flat", []float64{5, 5, 5}, 0, -1},
		{"Drop at index 2", []float64{1, 3, 2}, 0, 2},
		{"Drop within slack", []float64{1, 3, 2.5}, 1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNonDecreasing(tt.values, tt.slack); got != tt.expected {
				t.Errorf("IsNonDecreasing(%v, %v) = %d, expected %d", tt.values, tt.slack, got, tt.expected)
			}
		})
	}
}

func TestIsNonIncreasing(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		slack    float64
		expected int
	}{
		{"Empty", nil, 0, -1},
		{"Strictly decreasing", []float64{3, 2, 1}, 0, -1},
		{"Flat", []float64{5, 5, 5}, 0, -1},
		{"Rise at index 1", []float64{3, 4, 1}, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNonIncreasing(tt.values, tt.slack); got != tt.expected {
				t.Errorf("IsNonIncreasing(%v, %v) = %d, expected %d", tt.values, tt.slack, got, tt.expected)
			}
		})
	}
}
