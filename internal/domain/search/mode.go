package search

// Mode selects the retrieval strategy.
type Mode string

const (
	// Semantic runs embedding nearest-neighbor search only.
	Semantic Mode = "semantic"
	// Keyword runs lexical full-text search only.
	Keyword Mode = "keyword"
	// Hybrid runs both channels and merges them.
	Hybrid Mode = "hybrid"
)

// IsValid reports whether m is a known search mode.
func (m Mode) IsValid() bool {
	switch m {
	case Semantic, Keyword, Hybrid:
		return true
	}
	return false
}
