package chat

import (
	"context"
	"fmt"
	"strings"

	domsearch "github.com/openhearth/archivesearch/internal/domain/search"
)

const systemPrompt = `You are a research assistant for a family document archive.
Answer the question using ONLY the documents provided in the context.
Cite documents by file name when you reference them. If the context does
not contain the answer, say so plainly instead of guessing.`

// noResultsAnswer is returned without a model call when retrieval finds
// nothing relevant.
const noResultsAnswer = "I could not find any documents in the archive related to your question."

// contextSummaryChars bounds how much of each summary enters the prompt.
const contextSummaryChars = 600

// Answer is a grounded chat response with the documents it drew from.
type Answer struct {
	Answer  string
	Sources []domsearch.Candidate
}

// Service answers questions over the archive by retrieving relevant
// documents and grounding a chat model on them.
type Service struct {
	retriever Retriever
	model     ChatModel
}

// New creates a chat service.
func New(retriever Retriever, model ChatModel) *Service {
	return &Service{retriever: retriever, model: model}
}

// Ask retrieves documents for the question and generates a grounded answer.
// An empty retrieval short-circuits to a fixed answer; the model is never
// asked to improvise without sources.
func (s *Service) Ask(ctx context.Context, question string, limit int) (Answer, error) {
	req, err := domsearch.NewRequest(question, domsearch.Hybrid, domsearch.Filter{}, limit, false, false)
	if err != nil {
		return Answer{}, err
	}

	res, err := s.retriever.Search(ctx, &req)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve context: %w", err)
	}
	if len(res.Candidates) == 0 {
		return Answer{Answer: noResultsAnswer}, nil
	}

	answer, err := s.model.Complete(ctx, systemPrompt, buildPrompt(question, res.Candidates))
	if err != nil {
		return Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	return Answer{Answer: answer, Sources: res.Candidates}, nil
}

// buildPrompt renders retrieved documents into a context block ahead of the
// question.
func buildPrompt(question string, cands []domsearch.Candidate) string {
	var b strings.Builder
	b.WriteString("Context documents:\n\n")
	for i, c := range cands {
		fmt.Fprintf(&b, "[%d] %s", i+1, c.Document.FileName)
		if c.Document.PublicationDate != "" {
			fmt.Fprintf(&b, " (%s)", c.Document.PublicationDate)
		}
		if c.Document.FolderPath != "" {
			fmt.Fprintf(&b, " | folder: %s", c.Document.FolderPath)
		}
		b.WriteByte('\n')
		if summary := c.Document.Summary; summary != "" {
			if len(summary) > contextSummaryChars {
				summary = summary[:contextSummaryChars]
			}
			b.WriteString(summary)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "Question: %s", question)
	return b.String()
}
