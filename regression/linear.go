// Package regression provides single-pass least squares regression.
package regression

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/failsafe-go/online/moment"
)

// Linear fits y = Slope*x + Intercept by ordinary least squares over the observations recorded in a
// moment.Accumulator, and reports the Pearson correlation of x and y.
//
// This type is not concurrency safe.
type Linear[T constraints.Float] struct {
	moments moment.Accumulator[T]
}

// New returns a new Linear that records observations in the moments.
func New[T constraints.Float](moments moment.Accumulator[T]) *Linear[T] {
	return &Linear[T]{moments: moments}
}

// NewCumulative returns a new Linear over every observation.
func NewCumulative[T constraints.Float]() *Linear[T] {
	return New[T](moment.NewCumulative[T]())
}

// Push records an observation.
func (l *Linear[T]) Push(x, y T) {
	l.moments.Push(x, y)
}

// Size returns the number of observations.
func (l *Linear[T]) Size() int {
	return l.moments.Size()
}

// Clear discards all observations.
func (l *Linear[T]) Clear() {
	l.moments.Reset()
}

// Slope returns the slope of the fitted line, or 0 if x has not varied.
func (l *Linear[T]) Slope() T {
	sxx := l.moments.SumSquaresX()
	if sxx <= 0 {
		return 0
	}
	return l.moments.SumProducts() / sxx
}

// Intercept returns the y-intercept of the fitted line. When x has not varied, this is the mean of y.
func (l *Linear[T]) Intercept() T {
	return l.moments.MeanY() - l.Slope()*l.moments.MeanX()
}

// Correlation returns the Pearson correlation coefficient of x and y, from -1 to 1. Returns 1 if either x or y has not
// varied.
func (l *Linear[T]) Correlation() T {
	sxx := l.moments.SumSquaresX()
	syy := l.moments.SumSquaresY()
	if sxx <= 0 || syy <= 0 {
		return 1
	}
	return l.moments.SumProducts() / T(math.Sqrt(float64(sxx)*float64(syy)))
}
