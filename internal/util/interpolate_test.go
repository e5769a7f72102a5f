package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Asserts that values are interpolated at the fractional rank of the ratio.
func TestInterpolate(t *testing.T) {
	tests := []struct {
		name     string
		sorted   []float64
		ratio    float64
		expected float64
	}{
		{"empty", nil, .5, 0},
		{"single", []float64{7}, .9, 7},
		{"midpoint", []float64{0.02, 0.5}, .5, 0.26},
		{"exact rank", []float64{1, 2, 3, 4, 5}, .5, 3},
		{"fractional rank", []float64{1, 2}, .9, 1.9},
		{"minimum", []float64{1, 2, 3}, 0, 1},
		{"maximum", []float64{1, 2, 3}, 1, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Interpolate(tc.sorted, tc.ratio), 1e-9)
		})
	}
}

// Asserts that Assert only panics when the condition is false.
func TestAssert(t *testing.T) {
	assert.NotPanics(t, func() { Assert(true, "unused") })
	assert.PanicsWithValue(t, "failed", func() { Assert(false, "failed") })
}
