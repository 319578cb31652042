package chat

import (
	"context"

	domsearch "github.com/openhearth/archivesearch/internal/domain/search"
)

// Retriever fetches relevant documents for a question.
type Retriever interface {
	Search(ctx context.Context, req *domsearch.Request) (domsearch.Result, error)
}

// ChatModel generates an answer from a system prompt and user message.
type ChatModel interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
