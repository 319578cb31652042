// Package domain holds the core types and contracts shared across layers.
package domain

import "errors"

var (
	// ErrInvalidRequest signals a malformed or out-of-range request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat-completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
	// ErrRetrievalFailed signals a retrieval-gateway failure; the relevance
	// classifier is never invoked when a channel fetch fails.
	ErrRetrievalFailed = errors.New("retrieval failed")
)
