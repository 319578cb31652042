package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openhearth/archivesearch/internal/domain"
	domsearch "github.com/openhearth/archivesearch/internal/domain/search"
)

// completer is the consumer interface over the chat client.
type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const rerankSystemPrompt = `You are an archivist helping a researcher browse a document archive.
You receive a search query and a numbered list of matching documents.
Order the document numbers from most to least interesting for the researcher:
prefer documents with specific people, places, and events over routine or
administrative material. Respond with ONLY a JSON array of the document
numbers in your preferred order, e.g. [3,1,2].`

// rerankSummaryChars bounds how much of each summary goes into the prompt.
const rerankSummaryChars = 200

// Reranker reorders search results by editorial interest using the chat model.
type Reranker struct {
	chat completer
}

// NewReranker creates a chat-model reranker.
func NewReranker(chat *ChatClient) *Reranker {
	return &Reranker{chat: chat}
}

// Rerank asks the model for a preferred ordering of the candidates.
// Scores are untouched; only positions change. Candidates the model skips
// keep their relative order at the tail.
func (r *Reranker) Rerank(
	ctx context.Context, query string, cands []domsearch.Candidate,
) ([]domsearch.Candidate, error) {
	if len(cands) < 2 {
		return cands, nil
	}

	answer, err := r.chat.Complete(ctx, rerankSystemPrompt, buildRerankPrompt(query, cands))
	if err != nil {
		return nil, fmt.Errorf("rerank: %w", err)
	}

	order, err := parseOrder(answer, len(cands))
	if err != nil {
		return nil, fmt.Errorf("rerank: %w: %w", err, domain.ErrChatProviderError)
	}

	return applyOrder(cands, order), nil
}

func buildRerankPrompt(query string, cands []domsearch.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nDocuments:\n", query)
	for i, c := range cands {
		summary := c.Document.Summary
		if len(summary) > rerankSummaryChars {
			summary = summary[:rerankSummaryChars]
		}
		fmt.Fprintf(&b, "%d. %s", i+1, c.Document.FileName)
		if c.Document.PublicationDate != "" {
			fmt.Fprintf(&b, " (%s)", c.Document.PublicationDate)
		}
		if summary != "" {
			fmt.Fprintf(&b, " - %s", summary)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// parseOrder extracts a 1-based ordering array from the model answer,
// tolerating surrounding prose.
func parseOrder(answer string, n int) ([]int, error) {
	start := strings.Index(answer, "[")
	end := strings.LastIndex(answer, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no order array in answer")
	}

	var order []int
	if err := json.Unmarshal([]byte(answer[start:end+1]), &order); err != nil {
		return nil, fmt.Errorf("parse order array: %w", err)
	}

	seen := make(map[int]bool, n)
	valid := order[:0]
	for _, idx := range order {
		if idx < 1 || idx > n || seen[idx] {
			continue
		}
		seen[idx] = true
		valid = append(valid, idx)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("order array has no valid indices")
	}
	return valid, nil
}

// applyOrder reorders candidates by the 1-based index list, appending any
// candidate the model skipped in original order.
func applyOrder(cands []domsearch.Candidate, order []int) []domsearch.Candidate {
	out := make([]domsearch.Candidate, 0, len(cands))
	used := make([]bool, len(cands))
	for _, idx := range order {
		out = append(out, cands[idx-1])
		used[idx-1] = true
	}
	for i, c := range cands {
		if !used[i] {
			out = append(out, c)
		}
	}
	return out
}
