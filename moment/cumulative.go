// Package moment provides single-pass accumulators of the first and second moments of paired observations.
package moment

import "golang.org/x/exp/constraints"

// Accumulator accumulates the means, sums of squared deviations, and sum of co-deviations of (x, y) observations.
//
// Implementations are not concurrency safe.
type Accumulator[T constraints.Float] interface {
	// Push records an observation.
	Push(x, y T)

	// Reset discards all observations.
	Reset()

	// Size returns the number of observations.
	Size() int

	// MeanX returns the mean of x, or 0 if empty.
	MeanX() T

	// MeanY returns the mean of y, or 0 if empty.
	MeanY() T

	// SumSquaresX returns the sum of squared deviations of x from its mean.
	SumSquaresX() T

	// SumSquaresY returns the sum of squared deviations of y from its mean.
	SumSquaresY() T

	// SumProducts returns the sum of the products of the x and y deviations from their means.
	SumProducts() T
}

// Cumulative accumulates moments over every observation using Welford's algorithm, which avoids the cancellation that
// summing raw squares suffers from.
//
// This type is not concurrency safe.
type Cumulative[T constraints.Float] struct {
	count int
	meanX T
	meanY T
	sxx   T
	syy   T
	sxy   T
}

var _ Accumulator[float64] = &Cumulative[float64]{}

// NewCumulative returns a new Cumulative.
func NewCumulative[T constraints.Float]() *Cumulative[T] {
	return &Cumulative[T]{}
}

func (c *Cumulative[T]) Push(x, y T) {
	c.count++
	n := T(c.count)
	dx := x - c.meanX
	c.meanX += dx / n
	dy := y - c.meanY
	c.meanY += dy / n
	c.sxx += dx * (x - c.meanX)
	c.syy += dy * (y - c.meanY)
	c.sxy += dx * (y - c.meanY)
}

func (c *Cumulative[T]) Reset() {
	*c = Cumulative[T]{}
}

func (c *Cumulative[T]) Size() int {
	return c.count
}

func (c *Cumulative[T]) MeanX() T {
	return c.meanX
}

func (c *Cumulative[T]) MeanY() T {
	return c.meanY
}

func (c *Cumulative[T]) SumSquaresX() T {
	return c.sxx
}

func (c *Cumulative[T]) SumSquaresY() T {
	return c.syy
}

func (c *Cumulative[T]) SumProducts() T {
	return c.sxy
}

// VarianceX returns the population variance of x, or 0 if empty.
func (c *Cumulative[T]) VarianceX() T {
	return c.perObservation(c.sxx)
}

// VarianceY returns the population variance of y, or 0 if empty.
func (c *Cumulative[T]) VarianceY() T {
	return c.perObservation(c.syy)
}

// Covariance returns the population covariance of x and y, or 0 if empty.
func (c *Cumulative[T]) Covariance() T {
	return c.perObservation(c.sxy)
}

func (c *Cumulative[T]) perObservation(sum T) T {
	if c.count == 0 {
		return 0
	}
	return sum / T(c.count)
}
