package simd

import "math"

// SquaredDistance returns sum((a[i]-b[i])^2).
// a and b must have equal length.
func SquaredDistance(a, b []float64) float64 {
	b = b[:len(a)]
	sum := 0.0
	for i, ai := range a {
		d := ai - b[i]
		sum += d * d
	}
	return sum
}

// AbsDistance returns sum(|a[i]-b[i]|).
// a and b must have equal length.
func AbsDistance(a, b []float64) float64 {
	b = b[:len(a)]
	sum := 0.0
	for i, ai := range a {
		sum += math.Abs(ai - b[i])
	}
	return sum
}
