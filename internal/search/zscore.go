package search

import (
	"math"
	"sort"
)

// zscores converts raw measure values to robust z-scores: distance from the
// median in units of sample standard deviation. A cohort without spread
// scores zero across the board rather than dividing by zero.
func zscores(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	med := median(values)
	dev := sampleStddev(values)
	if dev == 0 || math.IsNaN(dev) {
		return out
	}
	for i, v := range values {
		out[i] = (v - med) / dev
	}
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// sampleStddev uses the n-1 denominator. A single value has no spread.
func sampleStddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
