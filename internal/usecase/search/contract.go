package search

import (
	"context"

	"github.com/openhearth/archivesearch/internal/domain"
	domsearch "github.com/openhearth/archivesearch/internal/domain/search"
)

// Repository defines the storage contract for candidate retrieval.
type Repository interface {
	// FetchSemantic runs KNN retrieval over the query vector and returns
	// up to k candidates with raw cosine similarities, best first.
	FetchSemantic(
		ctx context.Context, vector []float32, f domsearch.Filter, k int,
	) ([]domsearch.Candidate, error)

	// FetchLexical runs full-text retrieval over the query and returns up
	// to limit candidates in engine relevance order, with highlights.
	FetchLexical(
		ctx context.Context, query string, f domsearch.Filter, limit int,
	) ([]domsearch.Candidate, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Reranker reorders admitted candidates by editorial interest.
type Reranker interface {
	Rerank(
		ctx context.Context, query string, cands []domsearch.Candidate,
	) ([]domsearch.Candidate, error)
}
