package search

import (
	"fmt"

	"github.com/openhearth/archivesearch/internal/domain"
)

// Request parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 20
	MaxLimit       = 100
)

// Request is a validated search query.
type Request struct {
	query          string
	searchMode     Mode
	filter         Filter
	limit          int
	rerank         bool
	includeFolders bool
}

// NewRequest validates and normalizes search parameters.
// Defaults: mode=hybrid, limit=20.
func NewRequest(query string, m Mode, f Filter, limit int, rerank, includeFolders bool) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if m == "" {
		m = Hybrid
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid search mode %q", domain.ErrInvalidRequest, m)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{
		query:          query,
		searchMode:     m,
		filter:         f,
		limit:          limit,
		rerank:         rerank,
		includeFolders: includeFolders,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Mode returns the retrieval strategy.
func (r *Request) Mode() Mode { return r.searchMode }

// Filter returns the pre-filter.
func (r *Request) Filter() Filter { return r.filter }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }

// Rerank reports whether the LLM re-ranking pass was requested.
func (r *Request) Rerank() bool { return r.rerank }

// IncludeFolders reports whether folder aggregation was requested.
func (r *Request) IncludeFolders() bool { return r.includeFolders }
