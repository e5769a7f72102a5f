// Package quantile provides single-pass quantile estimators based on the P-Square algorithm by Jain and Chlamtac:
// https://www.cse.wustl.edu/~jain/papers/ftp/psqr.pdf
//
// Estimators keep a fixed number of markers regardless of how many observations are pushed. Until every marker has
// been filled, values are computed exactly from the observations. Afterwards, markers are moved toward their desired
// ranks and their heights are adjusted using piecewise-parabolic prediction.
package quantile

import (
	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/constraints"
)

// Common ratios.
const (
	Median        = .5
	LowerQuartile = .25
	UpperQuartile = .75
	UpperDecile   = .9
)

// Estimator estimates one or more quantiles from a stream of observations.
//
// Implementations are not concurrency safe.
type Estimator[T constraints.Float] interface {
	// Push records an observation.
	Push(value T)

	// Value returns the current estimate of the estimator's primary quantile, or 0 if nothing has been pushed.
	Value() T

	// Size returns the number of observations pushed since creation or the last Clear.
	Size() int

	// Empty returns whether nothing has been pushed since creation or the last Clear.
	Empty() bool

	// Clear discards all observations.
	Clear()

	// Adjusted returns the indexes of the markers that were moved by the most recent Push.
	Adjusted() *bitset.BitSet
}

// Parameter is the externally visible state of a marker: its rank among the observations and its height. Parameters
// can be captured from one estimator and used to seed another.
type Parameter[T constraints.Float] struct {
	Position int
	Height   T
}

var (
	_ Estimator[float64] = &PSquare[float64]{}
	_ Estimator[float32] = &Multi[float32]{}
)
