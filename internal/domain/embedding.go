package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in a single API call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult carries multiple embedding vectors and aggregate token usage.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// TruncatingEmbedder caps input length before embedding. Archive OCR text can
// run far past the provider's token window; truncation matches the corpus
// ingestion behavior so document and query vectors stay comparable.
type TruncatingEmbedder struct {
	inner    Embedder
	maxChars int
}

// NewTruncatingEmbedder creates a decorator that truncates input to maxChars.
func NewTruncatingEmbedder(inner Embedder, maxChars int) *TruncatingEmbedder {
	return &TruncatingEmbedder{inner: inner, maxChars: maxChars}
}

// Embed truncates text and delegates to the inner embedder.
func (e *TruncatingEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, e.truncate(text))
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("truncating embed: %w", err)
	}
	return result, nil
}

// BatchEmbed truncates each text and delegates to the inner embedder when
// it supports batching, otherwise falls back to per-text calls.
func (e *TruncatingEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	truncated := make([]string, len(texts))
	for i, t := range texts {
		truncated[i] = e.truncate(t)
	}

	if be, ok := e.inner.(BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, truncated)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("truncating batch embed: %w", err)
		}
		return res, nil
	}

	res, err := BatchFallback(ctx, e.inner, truncated)
	if err != nil {
		return BatchEmbeddingResult{}, fmt.Errorf("truncating batch embed fallback: %w", err)
	}
	return res, nil
}

func (e *TruncatingEmbedder) truncate(text string) string {
	if e.maxChars > 0 && len(text) > e.maxChars {
		return text[:e.maxChars]
	}
	return text
}

// BatchFallback emulates batch embedding with sequential single calls for
// embedders without a native batch endpoint.
func BatchFallback(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return BatchEmbeddingResult{}, nil
	}
	embeddings := make([][]float32, len(texts))
	var promptTokens, totalTokens int
	for i, t := range texts {
		res, err := e.Embed(ctx, t)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("fallback embed [%d]: %w", i, err)
		}
		embeddings[i] = res.Embedding
		promptTokens += res.PromptTokens
		totalTokens += res.TotalTokens
	}
	return BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: promptTokens,
		TotalTokens:  totalTokens,
	}, nil
}
