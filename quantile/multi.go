package quantile

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/constraints"

	"github.com/failsafe-go/online/internal/util"
)

// Multi estimates several quantiles at once using 2k+3 markers for k ratios. Besides the ratios themselves, markers
// track the minimum, the maximum, and the midpoints between adjacent ratios. Estimating quartiles uses 9 markers.
//
// Multi holds its markers in slices. Use Clone to obtain an independent copy. A Multi must be created with NewMulti,
// NewQuartile, or a MultiBuilder. The zero value has no markers and panics on Push.
//
// This type is not concurrency safe.
type Multi[T constraints.Float] struct {
	ratios []float64
	logger *slog.Logger

	// Mutable state
	count    int
	tracking bool
	markers  markers[T]
	scratch  []T
}

/*
MultiBuilder builds Multi instances.

This type is not concurrency safe.
*/
type MultiBuilder[T constraints.Float] interface {
	// WithLogger configures a logger which provides debug logging of mode changes.
	WithLogger(logger *slog.Logger) MultiBuilder[T]

	// WithParameters seeds the estimator with previously captured marker parameters, so that it starts in approximate
	// mode. Panics on Build if the params don't contain exactly one entry per marker or are not ordered.
	WithParameters(params ...Parameter[T]) MultiBuilder[T]

	// Build returns a new Multi using the builder's configuration.
	Build() *Multi[T]
}

type multiConfig[T constraints.Float] struct {
	ratios []float64
	logger *slog.Logger
	params []Parameter[T]
}

var _ MultiBuilder[float64] = &multiConfig[float64]{}

// NewMulti returns a new Multi that estimates the quantiles at the ratios. Panics if no ratios are given, if any ratio
// is not between 0 and 1, exclusive, or if the ratios are not strictly increasing.
func NewMulti[T constraints.Float](ratios ...float64) *Multi[T] {
	return NewMultiBuilder[T](ratios...).Build()
}

// NewQuartile returns a new Multi that estimates the lower quartile, the median, and the upper quartile.
func NewQuartile[T constraints.Float]() *Multi[T] {
	return NewMulti[T](LowerQuartile, Median, UpperQuartile)
}

// NewMultiBuilder returns a Multi builder for the ratios. Panics if no ratios are given, if any ratio is not between 0
// and 1, exclusive, or if the ratios are not strictly increasing.
func NewMultiBuilder[T constraints.Float](ratios ...float64) MultiBuilder[T] {
	util.Assert(len(ratios) > 0, "at least one ratio is required")
	for i, ratio := range ratios {
		util.Assert(ratio > 0 && ratio < 1, "ratios must be between 0 and 1")
		util.Assert(i == 0 || ratio > ratios[i-1], "ratios must be strictly increasing")
	}
	return &multiConfig[T]{
		ratios: slices.Clone(ratios),
	}
}

func (c *multiConfig[T]) WithLogger(logger *slog.Logger) MultiBuilder[T] {
	c.logger = logger
	return c
}

func (c *multiConfig[T]) WithParameters(params ...Parameter[T]) MultiBuilder[T] {
	c.params = params
	return c
}

func (c *multiConfig[T]) Build() *Multi[T] {
	ratios := markerRatios(c.ratios)
	m := &Multi[T]{
		ratios:  slices.Clone(c.ratios),
		logger:  c.logger,
		markers: make(markers[T], len(ratios)),
		scratch: make([]T, len(ratios)),
	}
	m.markers.init(ratios)
	if c.params != nil {
		m.SetParameters(c.params)
	}
	return m
}

// Push records an observation.
func (m *Multi[T]) Push(value T) {
	if !m.tracking {
		m.markers.fill(m.count, value, m.scratch)
		m.count++
		if m.count == len(m.markers) {
			m.tracking = true
			if m.logger != nil && m.logger.Enabled(nil, slog.LevelDebug) {
				m.logger.Debug("entering approximation",
					"ratios", m.ratios,
					"count", m.count)
			}
		}
		return
	}

	m.count++
	m.markers.push(value)
}

// Value returns the current estimate of the middle ratio, which is the median when estimating quartiles. For an even
// number of ratios, the upper of the two middle ratios is used.
func (m *Multi[T]) Value() T {
	return m.valueAt(len(m.ratios)/2 + 1)
}

// ValueAt returns the current estimate of the quantile at the ratio, which must be 0, 1, or one of the configured
// ratios. Until more observations than markers have been pushed, this is the exact order statistic at the ratio,
// interpolated between the two nearest observations. Returns 0 if nothing has been pushed. Panics if the ratio is not
// tracked.
func (m *Multi[T]) ValueAt(ratio float64) T {
	switch ratio {
	case 0:
		return m.valueAt(0)
	case 1:
		return m.valueAt(len(m.ratios) + 1)
	}
	for i, r := range m.ratios {
		if r == ratio {
			return m.valueAt(i + 1)
		}
	}
	panic(fmt.Sprintf("ratio %v is not tracked", ratio))
}

// Get returns ValueAt for the ratio at the index among 0, the configured ratios, and 1. Panics if the index is out of
// range.
func (m *Multi[T]) Get(index int) T {
	if index < 0 || index > len(m.ratios)+1 {
		panic(fmt.Sprintf("ratio index %d out of range [0, %d)", index, len(m.ratios)+2))
	}
	return m.valueAt(index)
}

// valueAt returns the value at the index among 0, the configured ratios, and 1.
func (m *Multi[T]) valueAt(index int) T {
	if m.count == 0 {
		return 0
	}
	if m.count <= len(m.markers) {
		return m.markers.exact(m.ratioAt(index), m.count, m.scratch)
	}
	return m.markers[2*index].height
}

func (m *Multi[T]) ratioAt(index int) float64 {
	switch index {
	case 0:
		return 0
	case len(m.ratios) + 1:
		return 1
	default:
		return m.ratios[index-1]
	}
}

// Parameters returns the position and height of each marker.
func (m *Multi[T]) Parameters() []Parameter[T] {
	result := make([]Parameter[T], len(m.markers))
	m.markers.parameters(result)
	return result
}

// SetParameters seeds the markers with the params, which are usually captured from another estimator for the same
// ratios. The estimator behaves as if it had observed as many values as the last marker's position. Panics if params
// doesn't contain exactly one entry per marker with increasing positions and non-decreasing heights.
func (m *Multi[T]) SetParameters(params []Parameter[T]) {
	m.markers.seed(params)
	m.count = params[len(params)-1].Position
	m.tracking = true
	if m.logger != nil && m.logger.Enabled(nil, slog.LevelDebug) {
		m.logger.Debug("seeded parameters",
			"ratios", m.ratios,
			"count", m.count)
	}
}

// Adjusted returns the indexes of the markers that were moved by the most recent Push.
func (m *Multi[T]) Adjusted() *bitset.BitSet {
	return m.markers.adjustedSet()
}

// Ratios returns a copy of the configured ratios.
func (m *Multi[T]) Ratios() []float64 {
	return slices.Clone(m.ratios)
}

// Size returns the number of observations pushed since creation or the last Clear.
func (m *Multi[T]) Size() int {
	return m.count
}

// Empty returns whether nothing has been pushed since creation or the last Clear.
func (m *Multi[T]) Empty() bool {
	return m.count == 0
}

// Clear discards all observations and seeded parameters.
func (m *Multi[T]) Clear() {
	m.count = 0
	m.tracking = false
	m.markers.reset()
}

// Clone returns an independent copy of the estimator.
func (m *Multi[T]) Clone() *Multi[T] {
	return &Multi[T]{
		ratios:   m.ratios,
		logger:   m.logger,
		count:    m.count,
		tracking: m.tracking,
		markers:  slices.Clone(m.markers),
		scratch:  make([]T, len(m.scratch)),
	}
}
