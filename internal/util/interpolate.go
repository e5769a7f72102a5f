package util

import "golang.org/x/exp/constraints"

// Interpolate returns the value at the fractional rank ratio*(len(sorted)-1) of the sorted values, linearly
// interpolating between the two nearest values. Returns 0 if sorted is empty.
func Interpolate[T constraints.Float](sorted []T, ratio float64) T {
	if len(sorted) == 0 {
		return 0
	}

	rank := ratio * float64(len(sorted)-1)
	lower := int(rank)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	fraction := T(rank - float64(lower))
	return sorted[lower] + fraction*(sorted[lower+1]-sorted[lower])
}
