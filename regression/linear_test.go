package regression

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/failsafe-go/online/moment"
)

// Asserts that an empty regression reports a flat line with perfect correlation.
func TestLinear_Empty(t *testing.T) {
	l := NewCumulative[float64]()

	assert.Equal(t, 0, l.Size())
	assert.Equal(t, 0.0, l.Slope())
	assert.Equal(t, 0.0, l.Intercept())
	assert.Equal(t, 1.0, l.Correlation())
}

// Asserts that lines are fitted exactly when the points are collinear.
func TestLinear_Lines(t *testing.T) {
	tests := []struct {
		name        string
		y           func(x float64) float64
		slope       float64
		intercept   float64
		correlation float64
	}{
		{"straight", func(x float64) float64 { return x }, 1, 0, 1},
		{"offset", func(x float64) float64 { return x + 2 }, 1, 2, 1},
		{"reversed", func(x float64) float64 { return 10 - 2*x }, -2, 10, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := NewCumulative[float64]()
			for x := 1.0; x <= 5; x++ {
				l.Push(x, tc.y(x))
			}

			assert.Equal(t, 5, l.Size())
			assert.InDelta(t, tc.slope, l.Slope(), 1e-9)
			assert.InDelta(t, tc.intercept, l.Intercept(), 1e-9)
			assert.InDelta(t, tc.correlation, l.Correlation(), 1e-9)
		})
	}
}

// Asserts that the fit is updated after each point of a scatter.
func TestLinear_Scatter(t *testing.T) {
	points := [][2]float64{{1, 1}, {2, 2}, {3, 1.3}, {4, 3.75}, {5, 2.25}}
	expected := [][3]float64{
		{0, 1, 1},
		{1, 0, 1},
		{.15, 1.133333, .292306},
		{.755, .125, .791292},
		{.425, .785, .626833},
	}

	l := NewCumulative[float64]()
	for i, p := range points {
		l.Push(p[0], p[1])
		assert.InDelta(t, expected[i][0], l.Slope(), 1e-6, "slope after %d points", i+1)
		assert.InDelta(t, expected[i][1], l.Intercept(), 1e-6, "intercept after %d points", i+1)
		assert.InDelta(t, expected[i][2], l.Correlation(), 1e-6, "correlation after %d points", i+1)
	}
}

// Asserts that repeating a single point yields a flat line through it.
func TestLinear_SamePoint(t *testing.T) {
	l := NewCumulative[float64]()
	for i := 0; i < 5; i++ {
		l.Push(1, 1)
	}

	assert.Equal(t, 0.0, l.Slope())
	assert.Equal(t, 1.0, l.Intercept())
	assert.Equal(t, 1.0, l.Correlation())
}

// Asserts that each of Anscombe's quartet fits the same line despite the different shapes.
func TestLinear_AnscombesQuartet(t *testing.T) {
	x := []float32{10, 8, 13, 9, 11, 14, 6, 4, 12, 7, 5}
	tests := []struct {
		name string
		x    []float32
		y    []float32
	}{
		{"I", x, []float32{8.04, 6.95, 7.58, 8.81, 8.33, 9.96, 7.24, 4.26, 10.84, 4.82, 5.68}},
		{"II", x, []float32{9.14, 8.14, 8.74, 8.77, 9.26, 8.10, 6.13, 3.10, 9.13, 7.26, 4.74}},
		{"III", x, []float32{7.46, 6.77, 12.74, 7.11, 7.81, 8.84, 6.08, 5.39, 8.15, 6.42, 5.73}},
		{"IV", []float32{8, 8, 8, 8, 8, 8, 8, 19, 8, 8, 8}, []float32{6.58, 5.76, 7.71, 8.84, 8.47, 7.04, 5.25, 12.50, 5.56, 7.91, 6.89}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := NewCumulative[float32]()
			for i := range tc.x {
				l.Push(tc.x[i], tc.y[i])
			}

			assert.InDelta(t, .5, l.Slope(), 5e-2)
			assert.InDelta(t, 3.0, l.Intercept(), 5e-2)
			assert.InDelta(t, .816, l.Correlation(), 5e-2)
		})
	}
}

// Asserts that float32 correlation stays exact when the sums of squares are too large to multiply in float32.
func TestLinear_Float32WideRange(t *testing.T) {
	l := NewCumulative[float32]()
	for i := 0; i < 100; i++ {
		v := float32(i) * 1e10
		l.Push(v, v)
	}

	assert.Greater(t, float64(l.moments.SumSquaresX()), 1e20)
	assert.InDelta(t, 1, l.Slope(), 1e-6)
	assert.InDelta(t, 1, l.Correlation(), 1e-6)
}

// Asserts that Clear resets the underlying accumulator.
func TestLinear_Clear(t *testing.T) {
	moments := moment.NewCumulative[float64]()
	l := New[float64](moments)
	l.Push(1, 2)
	l.Push(2, 4)
	assert.Equal(t, 2, moments.Size())

	l.Clear()
	assert.Equal(t, 0, moments.Size())
	assert.Equal(t, 0.0, l.Slope())

	l.Push(1, 3)
	l.Push(3, 7)
	assert.InDelta(t, 2, l.Slope(), 1e-9)
	assert.InDelta(t, 1, l.Intercept(), 1e-9)
}
