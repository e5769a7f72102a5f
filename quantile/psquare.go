package quantile

import (
	"fmt"
	"log/slog"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/constraints"

	"github.com/failsafe-go/online/internal/util"
)

const psquareMarkers = 5

// PSquare estimates a single quantile using 5 markers. The markers track the minimum, ratio/2, the ratio, (1+ratio)/2,
// and the maximum.
//
// A PSquare holds all of its state inline, so assigning one PSquare to another copies it, and the copies evolve
// independently. A PSquare must be created with New, NewMedian, or a Builder. The zero value has no ratio.
//
// This type is not concurrency safe.
type PSquare[T constraints.Float] struct {
	ratio  float64
	logger *slog.Logger

	// Mutable state
	count    int
	tracking bool
	markers  [psquareMarkers]marker[T]
	scratch  [psquareMarkers]T
}

/*
Builder builds PSquare instances.

This type is not concurrency safe.
*/
type Builder[T constraints.Float] interface {
	// WithLogger configures a logger which provides debug logging of mode changes.
	WithLogger(logger *slog.Logger) Builder[T]

	// WithParameters seeds the estimator with previously captured marker parameters, so that it starts in approximate
	// mode. Panics on Build if the params don't contain exactly one entry per marker or are not ordered.
	WithParameters(params ...Parameter[T]) Builder[T]

	// Build returns a new PSquare using the builder's configuration.
	Build() PSquare[T]
}

type config[T constraints.Float] struct {
	ratio  float64
	logger *slog.Logger
	params []Parameter[T]
}

var _ Builder[float64] = &config[float64]{}

// New returns a new PSquare that estimates the quantile at the ratio. Panics if the ratio is not between 0 and 1,
// exclusive.
func New[T constraints.Float](ratio float64) PSquare[T] {
	return NewBuilder[T](ratio).Build()
}

// NewMedian returns a new PSquare that estimates the median.
func NewMedian[T constraints.Float]() PSquare[T] {
	return New[T](Median)
}

// NewBuilder returns a PSquare builder for the ratio. Panics if the ratio is not between 0 and 1, exclusive.
func NewBuilder[T constraints.Float](ratio float64) Builder[T] {
	util.Assert(ratio > 0 && ratio < 1, "ratio must be between 0 and 1")
	return &config[T]{
		ratio: ratio,
	}
}

func (c *config[T]) WithLogger(logger *slog.Logger) Builder[T] {
	c.logger = logger
	return c
}

func (c *config[T]) WithParameters(params ...Parameter[T]) Builder[T] {
	c.params = params
	return c
}

func (c *config[T]) Build() PSquare[T] {
	p := PSquare[T]{
		ratio:  c.ratio,
		logger: c.logger,
	}
	p.all().init(markerRatios([]float64{c.ratio}))
	if c.params != nil {
		p.SetParameters(c.params)
	}
	return p
}

func (p *PSquare[T]) all() markers[T] {
	return p.markers[:]
}

// Push records an observation.
func (p *PSquare[T]) Push(value T) {
	if !p.tracking {
		p.all().fill(p.count, value, p.scratch[:])
		p.count++
		if p.count == psquareMarkers {
			p.tracking = true
			if p.logger != nil && p.logger.Enabled(nil, slog.LevelDebug) {
				p.logger.Debug("entering approximation",
					"ratio", p.ratio,
					"count", p.count)
			}
		}
		return
	}

	p.count++
	p.all().push(value)
}

// Value returns the current estimate of the quantile. Up to 5 observations, this is the exact order
// statistic at the ratio, interpolated between the two nearest observations. Returns 0 if nothing has been pushed.
func (p *PSquare[T]) Value() T {
	if p.count == 0 {
		return 0
	}
	if p.count <= psquareMarkers {
		return p.all().exact(p.ratio, p.count, p.scratch[:])
	}
	return p.markers[2].height
}

// Get returns the height of the marker at the index, from 0 to 4. While filling, heights are in insertion order.
// Panics if the index is out of range.
func (p *PSquare[T]) Get(index int) T {
	if index < 0 || index >= psquareMarkers {
		panic(fmt.Sprintf("marker index %d out of range [0, %d)", index, psquareMarkers))
	}
	return p.markers[index].height
}

// Parameters returns the position and height of each marker.
func (p *PSquare[T]) Parameters() [psquareMarkers]Parameter[T] {
	var result [psquareMarkers]Parameter[T]
	p.all().parameters(result[:])
	return result
}

// SetParameters seeds the markers with the params, which are usually captured from another estimator for the same
// ratio. The estimator behaves as if it had observed as many values as the last marker's position. Panics if params
// doesn't contain exactly 5 entries with increasing positions and non-decreasing heights.
func (p *PSquare[T]) SetParameters(params []Parameter[T]) {
	p.all().seed(params)
	p.count = params[psquareMarkers-1].Position
	p.tracking = true
	if p.logger != nil && p.logger.Enabled(nil, slog.LevelDebug) {
		p.logger.Debug("seeded parameters",
			"ratio", p.ratio,
			"count", p.count)
	}
}

// Adjusted returns the indexes of the markers that were moved by the most recent Push.
func (p *PSquare[T]) Adjusted() *bitset.BitSet {
	return p.all().adjustedSet()
}

// Ratio returns the ratio of the estimated quantile.
func (p *PSquare[T]) Ratio() float64 {
	return p.ratio
}

// Size returns the number of observations pushed since creation or the last Clear.
func (p *PSquare[T]) Size() int {
	return p.count
}

// Empty returns whether nothing has been pushed since creation or the last Clear.
func (p *PSquare[T]) Empty() bool {
	return p.count == 0
}

// Clear discards all observations and seeded parameters.
func (p *PSquare[T]) Clear() {
	p.count = 0
	p.tracking = false
	p.all().reset()
}
