package search

import (
	"sort"

	domsearch "github.com/openhearth/archivesearch/internal/domain/search"
)

// Outcome labels the classification path taken for a candidate pool, used
// for metrics and logging.
type Outcome string

const (
	OutcomeAccepted          Outcome = "accepted"
	OutcomeEarlyReject       Outcome = "early_reject"
	OutcomeLowVarianceReject Outcome = "low_variance_reject"
	OutcomeEmptyPool         Outcome = "empty_pool"
)

// Thresholds holds the tunable cutoffs of the relevance classifier.
type Thresholds struct {
	// AbsoluteMinSimilarity is the hard floor: no candidate below it is
	// ever admitted, and a pool whose best candidate is below it is
	// rejected outright.
	AbsoluteMinSimilarity float64
	// MinMeanSimilarity rejects pools whose overall similarity level is
	// too low to carry signal.
	MinMeanSimilarity float64
	// CVThreshold is the coefficient-of-variation cutoff separating a
	// pool with genuine outliers from uniform noise.
	CVThreshold float64
	// LowVarianceFallback, when set, returns the raw pool ordered by
	// similarity instead of an empty result when no variance signal and
	// no text match exists.
	LowVarianceFallback bool
}

// DefaultThresholds returns the cutoffs the classifier was tuned with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AbsoluteMinSimilarity: 0.32,
		MinMeanSimilarity:     0.20,
		CVThreshold:           0.25,
	}
}

// Scoring constants for the text-match branch: filename hits outrank
// summary-only hits, and each rank step down costs a fixed penalty until
// the floor.
const (
	fileNameBaseScore  = 0.90
	summaryBaseScore   = 0.75
	textRankPenalty    = 0.02
	textScoreFloor     = 0.60
	varianceScoreBase  = 0.60
	varianceScoreSpan  = 0.30
	bonusScoreBase     = 0.50
	bonusScoreSpan     = 0.20
	varianceBandFactor = 0.5
)

// Classify decides which candidates from a similarity-ranked pool are
// genuinely relevant to the query and assigns each admitted candidate a
// final score. It returns at most limit candidates in descending score
// order, plus the outcome label of the path taken.
//
// The decision runs in three stages: a hard early reject on pools with no
// usable signal, a text-match branch that trusts literal query hits in
// file names and summaries, and a variance branch that admits statistical
// outliers when the pool's coefficient of variation shows a real relevance
// cliff. A flat pool with no text match yields nothing unless the
// low-variance fallback is enabled.
func (t Thresholds) Classify(pool []domsearch.Candidate, query string, limit int) ([]domsearch.Candidate, Outcome) {
	if len(pool) == 0 {
		return nil, OutcomeEmptyPool
	}
	if limit <= 0 {
		return nil, OutcomeEmptyPool
	}

	sims := make([]float64, len(pool))
	maxSim := 0.0
	for i, c := range pool {
		sims[i] = c.RawSimilarity
		if c.RawSimilarity > maxSim {
			maxSim = c.RawSimilarity
		}
	}
	mean := Mean(sims)
	sd := StdDev(sims)
	cv := CoefficientOfVariation(sims)

	// Early reject: no amount of text matching rescues a pool whose best
	// candidate is below the absolute floor or whose mean shows the whole
	// neighborhood is noise.
	if maxSim < t.AbsoluteMinSimilarity || mean < t.MinMeanSimilarity {
		return nil, OutcomeEarlyReject
	}

	textMatches := make([]domsearch.Candidate, 0, len(pool))
	semanticOnly := make([]domsearch.Candidate, 0, len(pool))
	for _, c := range pool {
		c.FileNameMatch = HasTextMatch(query, c.Document.FileName)
		c.SummaryMatch = HasTextMatch(query, c.Document.Summary)
		c.TextMatchCount = CountTextMatches(query, c.Document.FileName) +
			CountTextMatches(query, c.Document.Summary)
		if c.HasTextMatch() {
			textMatches = append(textMatches, c)
		} else {
			semanticOnly = append(semanticOnly, c)
		}
	}

	var results []domsearch.Candidate
	switch {
	case len(textMatches) > 0:
		results = t.scoreTextMatches(textMatches)
		if cv > t.CVThreshold && len(results) < limit {
			results = append(results, t.admitByVariance(semanticOnly, mean, sd, bonusScoreBase, bonusScoreSpan)...)
		}
	case cv > t.CVThreshold:
		results = t.admitByVariance(semanticOnly, mean, sd, varianceScoreBase, varianceScoreSpan)
	default:
		if t.LowVarianceFallback {
			results = fallbackBySimilarity(pool)
			break
		}
		return nil, OutcomeLowVarianceReject
	}

	if len(results) == 0 {
		return nil, OutcomeLowVarianceReject
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, OutcomeAccepted
}

// scoreTextMatches orders literal query hits (filename matches first, then
// by match count, then by similarity) and assigns descending scores from
// the per-branch base down to the floor.
func (t Thresholds) scoreTextMatches(matches []domsearch.Candidate) []domsearch.Candidate {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.FileNameMatch != b.FileNameMatch {
			return a.FileNameMatch
		}
		if a.TextMatchCount != b.TextMatchCount {
			return a.TextMatchCount > b.TextMatchCount
		}
		return a.RawSimilarity > b.RawSimilarity
	})
	for i := range matches {
		base := summaryBaseScore
		if matches[i].FileNameMatch {
			base = fileNameBaseScore
		}
		score := base - textRankPenalty*float64(i)
		if score < textScoreFloor {
			score = textScoreFloor
		}
		matches[i].Score = score
	}
	return matches
}

// admitByVariance keeps candidates more than half a standard deviation
// above the pool mean (and above the absolute floor), scoring each by its
// percentile rank within the admitted subset mapped onto
// [base, base+span).
func (t Thresholds) admitByVariance(cands []domsearch.Candidate, mean, sd, base, span float64) []domsearch.Candidate {
	cutoff := mean + varianceBandFactor*sd
	admitted := make([]domsearch.Candidate, 0, len(cands))
	for _, c := range cands {
		if c.RawSimilarity > cutoff && c.RawSimilarity >= t.AbsoluteMinSimilarity {
			admitted = append(admitted, c)
		}
	}
	if len(admitted) == 0 {
		return nil
	}
	sorted := make([]float64, len(admitted))
	for i, c := range admitted {
		sorted[i] = c.RawSimilarity
	}
	sort.Float64s(sorted)
	for i := range admitted {
		pr := PercentileRank(admitted[i].RawSimilarity, sorted)
		admitted[i].Score = base + pr*span
	}
	return admitted
}

// fallbackBySimilarity returns the pool ordered by raw similarity with the
// similarity itself as score, for deployments that opt into low-variance
// passthrough.
func fallbackBySimilarity(pool []domsearch.Candidate) []domsearch.Candidate {
	out := make([]domsearch.Candidate, len(pool))
	copy(out, pool)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RawSimilarity > out[j].RawSimilarity
	})
	for i := range out {
		out[i].Score = out[i].RawSimilarity
	}
	return out
}
