package quantile

import (
	"slices"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/constraints"

	"github.com/failsafe-go/online/internal/util"
)

// marker tracks the estimated height of the order statistic at some rank.
type marker[T constraints.Float] struct {
	position  int     // 1-indexed rank
	desired   float64 // Rank the marker should be at
	increment float64 // Desired rank increment per observation, which is also the marker's ratio
	height    T
	adjusted  bool // Whether the last observation moved the marker
}

// markers is a fixed-size, ordered set of markers. The first and last markers hold the minimum and maximum.
type markers[T constraints.Float] []marker[T]

// markerRatios returns the ratios for 2k+3 markers that track k target ratios: the targets plus 0 and 1, interleaved
// with the midpoints between them.
func markerRatios(targets []float64) []float64 {
	result := make([]float64, 0, 2*len(targets)+3)
	result = append(result, 0)
	previous := 0.0
	for _, ratio := range targets {
		result = append(result, (previous+ratio)/2, ratio)
		previous = ratio
	}
	return append(result, (previous+1)/2, 1)
}

// init assigns the marker ratios and resets the markers.
func (s markers[T]) init(ratios []float64) {
	for i := range s {
		s[i].increment = ratios[i]
	}
	s.reset()
}

func (s markers[T]) reset() {
	last := float64(len(s) - 1)
	for i := range s {
		s[i].position = i + 1
		s[i].desired = 1 + last*s[i].increment
		s[i].height = 0
		s[i].adjusted = false
	}
}

// fill stores the value at the index while there are fewer observations than markers. Heights are sorted once the last
// marker is filled, using the scratch space.
func (s markers[T]) fill(index int, value T, scratch []T) {
	s[index].height = value
	if index == len(s)-1 {
		heights := s.heights(scratch, len(s))
		slices.Sort(heights)
		for i := range s {
			s[i].height = heights[i]
		}
	}
}

// heights copies the first count heights into the scratch space.
func (s markers[T]) heights(scratch []T, count int) []T {
	heights := scratch[:count]
	for i := range heights {
		heights[i] = s[i].height
	}
	return heights
}

// exact returns the interpolated order statistic for the ratio over the first count heights, which are the literal
// observations.
func (s markers[T]) exact(ratio float64, count int, scratch []T) T {
	heights := s.heights(scratch, count)
	slices.Sort(heights)
	return util.Interpolate(heights, ratio)
}

// push records an observation once all markers are filled.
func (s markers[T]) push(value T) {
	last := len(s) - 1

	// Find the cell k containing the value, extending the extremes if needed
	var k int
	switch {
	case value < s[0].height:
		s[0].height = value
	case value >= s[last].height:
		s[last].height = value
		k = last - 1
	default:
		for value >= s[k+1].height {
			k++
		}
	}

	for i := range s {
		if i > k {
			s[i].position++
		}
		s[i].desired += s[i].increment
		s[i].adjusted = false
	}

	for i := 1; i < last; i++ {
		s.adjust(i)
	}
}

// adjust steps an interior marker one rank toward its desired position, if its neighbors leave room, and estimates its
// new height.
func (s markers[T]) adjust(i int) {
	delta := s[i].desired - float64(s[i].position)
	var step int
	switch {
	case delta > 0 && s[i+1].position-s[i].position > 1:
		step = 1
	case delta < 0 && s[i-1].position-s[i].position < -1:
		step = -1
	default:
		return
	}

	height := s.parabolic(i, step)
	if !(s[i-1].height < height && height < s[i+1].height) {
		height = s.linear(i, step)
	}
	s[i].height = height
	s[i].position += step
	s[i].adjusted = true
}

// parabolic predicts the height of marker i after a step using the piecewise-parabolic formula through its neighbors.
func (s markers[T]) parabolic(i int, step int) T {
	d := float64(step)
	prevPos, pos, nextPos := float64(s[i-1].position), float64(s[i].position), float64(s[i+1].position)
	prev, height, next := float64(s[i-1].height), float64(s[i].height), float64(s[i+1].height)

	return T(height + d/(nextPos-prevPos)*((pos-prevPos+d)*(next-height)/(nextPos-pos)+(nextPos-pos-d)*(height-prev)/(pos-prevPos)))
}

// linear is used when the parabolic prediction leaves the neighbors' range. A step up interpolates toward the upper
// neighbor. A step down keeps the current height.
func (s markers[T]) linear(i int, step int) T {
	if step < 0 {
		return s[i].height
	}
	next := s[i+1]
	return s[i].height + (next.height-s[i].height)/T(next.position-s[i].position)
}

func (s markers[T]) parameters(result []Parameter[T]) {
	for i, m := range s {
		result[i] = Parameter[T]{Position: m.position, Height: m.height}
	}
}

// seed overwrites the markers with the params, aligning their desired positions to the given positions.
func (s markers[T]) seed(params []Parameter[T]) {
	util.Assert(len(params) == len(s), "params must contain one entry per marker")
	for i, p := range params {
		util.Assert(p.Position >= 1, "param positions must be positive")
		if i > 0 {
			util.Assert(p.Position > params[i-1].Position, "param positions must be strictly increasing")
			util.Assert(p.Height >= params[i-1].Height, "param heights must be non-decreasing")
		}
	}

	for i, p := range params {
		s[i].position = p.Position
		s[i].desired = float64(p.Position)
		s[i].height = p.Height
		s[i].adjusted = false
	}
}

func (s markers[T]) adjustedSet() *bitset.BitSet {
	result := bitset.New(uint(len(s)))
	for i, m := range s {
		if m.adjusted {
			result.Set(uint(i))
		}
	}
	return result
}
