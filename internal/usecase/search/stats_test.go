package search

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMean_Empty(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %f", got)
	}
}

func TestMean_Values(t *testing.T) {
	if got := Mean([]float64{0.2, 0.4, 0.6}); !almostEqual(got, 0.4) {
		t.Errorf("expected 0.4, got %f", got)
	}
}

func TestStdDev_Empty(t *testing.T) {
	if got := StdDev(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %f", got)
	}
}

func TestStdDev_AllEqual_IsZero(t *testing.T) {
	if got := StdDev([]float64{0.5, 0.5, 0.5, 0.5}); got != 0 {
		t.Errorf("expected 0 for constant input, got %f", got)
	}
}

func TestStdDev_Population(t *testing.T) {
	// Population std dev of this set is exactly 2.
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := StdDev(xs); !almostEqual(got, 2) {
		t.Errorf("expected 2, got %f", got)
	}
}

func TestStdDev_NonNegative(t *testing.T) {
	pools := [][]float64{
		{0.1}, {0.9, 0.1}, {0.3, 0.3, 0.9}, {1, 0, 1, 0},
	}
	for _, xs := range pools {
		if got := StdDev(xs); got < 0 {
			t.Errorf("negative std dev %f for %v", got, xs)
		}
	}
}

func TestCoefficientOfVariation_ZeroMean(t *testing.T) {
	if got := CoefficientOfVariation([]float64{0, 0, 0}); got != 0 {
		t.Errorf("expected 0 for zero mean, got %f", got)
	}
}

func TestCoefficientOfVariation_Value(t *testing.T) {
	// mean=0.5, sd=0.25 -> cv=0.5
	if got := CoefficientOfVariation([]float64{0.25, 0.75}); !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestPercentileRank_Empty(t *testing.T) {
	if got := PercentileRank(0.5, nil); got != 0 {
		t.Errorf("expected 0 for empty slice, got %f", got)
	}
}

func TestPercentileRank_BoundsAndMonotone(t *testing.T) {
	sorted := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	prev := -1.0
	for _, v := range []float64{0.05, 0.1, 0.25, 0.45, 0.5, 0.9} {
		pr := PercentileRank(v, sorted)
		if pr < 0 || pr > 1 {
			t.Errorf("percentile rank %f out of [0,1] for v=%f", pr, v)
		}
		if pr < prev {
			t.Errorf("percentile rank not monotone: %f after %f", pr, prev)
		}
		prev = pr
	}
}

func TestPercentileRank_StrictlyBelow(t *testing.T) {
	sorted := []float64{0.2, 0.4, 0.4, 0.6}
	// Equal elements do not count as below.
	if got := PercentileRank(0.4, sorted); !almostEqual(got, 0.25) {
		t.Errorf("expected 0.25, got %f", got)
	}
	if got := PercentileRank(0.7, sorted); !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0, got %f", got)
	}
}
