// Package scale maps data domains onto pixel ranges.
//
// Both scales are plain values: building one has no side effects and a
// scale never changes after construction. A domain that collapses to a
// single point is degenerate and maps every input to the middle of the
// range instead of dividing by zero.
package scale

import "math"

// Linear maps [D0, D1] linearly onto [R0, R1]. R0 may be greater than R1
// (inverted vertical axes).
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinear creates a linear scale.
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Degenerate reports whether the domain has zero width.
func (s Linear) Degenerate() bool {
	return s.D0 == s.D1
}

// Map converts a domain value to the range.
func (s Linear) Map(v float64) float64 {
	if s.Degenerate() {
		return (s.R0 + s.R1) / 2
	}
	t := (v - s.D0) / (s.D1 - s.D0)
	return s.R0 + t*(s.R1-s.R0)
}

// Invert converts a range value back to the domain. A degenerate scale
// returns D0 for every input.
func (s Linear) Invert(r float64) float64 {
	if s.Degenerate() || s.R0 == s.R1 {
		return s.D0
	}
	t := (r - s.R0) / (s.R1 - s.R0)
	return s.D0 + t*(s.D1-s.D0)
}

// Ticks returns n evenly spaced domain values from D0 to D1 inclusive.
// n < 2 or a degenerate domain yields just D0.
func (s Linear) Ticks(n int) []float64 {
	if n < 2 || s.Degenerate() {
		return []float64{s.D0}
	}
	ticks := make([]float64, n)
	step := (s.D1 - s.D0) / float64(n-1)
	for i := range ticks {
		ticks[i] = s.D0 + step*float64(i)
	}
	ticks[n-1] = s.D1
	return ticks
}

// Extent returns the min and max of values. ok is false for an empty
// input or when every value is NaN.
func Extent(values []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}
