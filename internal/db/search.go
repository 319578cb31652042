package db

import "github.com/openhearth/archivesearch/internal/domain/search"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filter       search.Filter
	Vector       []float32
	K            int
	ReturnFields []string
}

// TextQuery is the input for BM25 text search.
type TextQuery struct {
	IndexName    string
	Query        string
	Filter       search.Filter
	TopK         int
	ReturnFields []string

	// Highlight wraps matched terms in HighlightFields with <em> tags.
	Highlight       bool
	HighlightFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
// For KNN entries Score is similarity (1 - cosine distance, clamped to [0,1]);
// for BM25 entries Score is the raw engine score.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
