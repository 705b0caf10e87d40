package search

import (
	"math"
	"testing"
)

func TestZScores_KnownCohort(t *testing.T) {
	// Median 20, sample stddev 10.
	got := zscores([]float64{10, 20, 30})
	want := []float64{-1, 0, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("zscore[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestZScores_EvenCohortUsesMidpointMedian(t *testing.T) {
	got := zscores([]float64{0, 10, 20, 30})
	// Median 15, sample stddev sqrt(500/3).
	dev := math.Sqrt(500.0 / 3.0)
	want := []float64{-15 / dev, -5 / dev, 5 / dev, 15 / dev}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("zscore[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestZScores_NoSpreadScoresZero(t *testing.T) {
	for _, values := range [][]float64{{}, {42}, {7, 7, 7}} {
		got := zscores(values)
		for i, z := range got {
			if z != 0 {
				t.Fatalf("values %v index %d = %v, want 0", values, i, z)
			}
		}
	}
}

func TestMedian_Odd(t *testing.T) {
	if m := median([]float64{9, 1, 5}); m != 5 {
		t.Fatalf("median = %v, want 5", m)
	}
}
