// Package search holds the search-side domain types: candidates, filters,
// modes, validated requests, and folder groupings.
package search

import "github.com/openhearth/archivesearch/internal/domain"

// Candidate is one retrieved document plus its retrieval metadata.
//
// Score is meaningless until the relevance classifier (or merger) assigns it;
// raw pool order from the retrieval engine carries no relevance guarantee.
type Candidate struct {
	Document domain.Document

	// RawSimilarity is 1 - cosine distance, clamped to [0,1]. Zero on the
	// lexical channel.
	RawSimilarity float64

	FileNameMatch  bool
	SummaryMatch   bool
	TextMatchCount int

	// Score is the final normalized relevance in [0,1].
	Score float64

	// Highlights maps field names to matched snippets, passed through from
	// the retrieval engine.
	Highlights map[string][]string
}

// HasTextMatch reports whether any query term literally hit the candidate's
// searchable fields.
func (c *Candidate) HasTextMatch() bool {
	return c.FileNameMatch || c.SummaryMatch
}
