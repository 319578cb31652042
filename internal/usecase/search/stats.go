package search

import "math"

// Similarity statistics over a candidate pool. All functions are pure and
// total: empty input yields 0.

// Mean returns the arithmetic mean of xs, 0 for empty input.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the population standard deviation of xs (divide by N),
// 0 for empty input.
func StdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// CoefficientOfVariation returns stdDev/mean when mean > 0, else 0.
//
// This is the key relevance signal: genuine relevance shows up as a few
// high-similarity outliers against a low-similarity background (high CV);
// a uniformly-distant pool (low CV) means the corpus holds no real match
// for the query.
func CoefficientOfVariation(xs []float64) float64 {
	m := Mean(xs)
	if m <= 0 {
		return 0
	}
	return StdDev(xs) / m
}

// PercentileRank returns the fraction of elements in the ascending-sorted
// slice strictly less than v. Returns 0 for an empty slice; always in [0,1].
func PercentileRank(v float64, sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	below := 0
	for _, x := range sorted {
		if x < v {
			below++
		} else {
			break
		}
	}
	return float64(below) / float64(len(sorted))
}
