package sizing

import "math"

// DefaultStep is the quantization granularity applied when the caller
// does not override it. Rounding requested sizes up to multiples of the
// step keeps near-identical boxes on the same thumbnail URL, which is
// what makes upstream caching effective.
const DefaultStep = 100

// Target converts a measured box dimension into the pixel size to request
// from the thumbnail service: the density-scaled size rounded up to the
// next multiple of step.
//
// A measured size of 0 means the element has not been laid out yet; the
// result is 0, which callers treat as "not ready".
func Target(measured, density float64, step int) int {
	if measured <= 0 {
		return 0
	}
	if density <= 0 {
		density = 1
	}
	if step <= 0 {
		step = DefaultStep
	}
	return int(math.Ceil(measured*density/float64(step))) * step
}
