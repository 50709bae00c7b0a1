// Package algo has the numeric primitives shared by the scoring pipeline:
// quantiles, min-max scaling and the least-squares trend fit.
package algo

import (
	"math"
	"sort"
)

// Quantile returns the q-th quantile of values using linear interpolation
// between order statistics. q must be in [0,1]; an empty input yields 0.
// The input slice is not modified.
func Quantile(values []float64, q float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return values[0]
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 || math.IsNaN(q) {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	pos := q * float64(n-1)
	lower := int(math.Floor(pos))
	frac := pos - float64(lower)
	if lower+1 >= n {
		return sorted[n-1]
	}
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}

// MinMax returns the smallest and largest of values. An empty input yields
// (0, 0).
func MinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Scale01 maps v into [0,1] relative to the [lo, hi] range, clamping at the
// edges. A degenerate range (lo == hi) yields 0 so a feature with no spread
// contributes nothing to the score.
func Scale01(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	scaled := (v - lo) / (hi - lo)
	return Clamp01(scaled)
}

// Clamp01 clamps v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Slope returns the least-squares slope of y over x. Fewer than 2 points,
// or x values with no spread, yield 0.
func Slope(x, y []float64) float64 {
	n := len(x)
	if n < 2 || len(y) != n {
		return 0
	}

	var sumX, sumY float64
	for i := range n {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var num, den float64
	for i := range n {
		dx := x[i] - meanX
		num += dx * (y[i] - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}
