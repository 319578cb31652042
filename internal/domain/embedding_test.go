package domain

import (
	"context"
	"testing"
)

type captureEmbedder struct {
	lastText string
}

func (c *captureEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	c.lastText = text
	return EmbeddingResult{Embedding: []float32{0.1}}, nil
}

func TestTruncatingEmbedder_LongInput(t *testing.T) {
	inner := &captureEmbedder{}
	e := NewTruncatingEmbedder(inner, 5)

	if _, err := e.Embed(context.Background(), "0123456789"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.lastText != "01234" {
		t.Errorf("inner text = %q, want truncated to 5 chars", inner.lastText)
	}
}

func TestTruncatingEmbedder_ShortInput(t *testing.T) {
	inner := &captureEmbedder{}
	e := NewTruncatingEmbedder(inner, 100)

	if _, err := e.Embed(context.Background(), "short"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if inner.lastText != "short" {
		t.Errorf("inner text = %q, want unchanged", inner.lastText)
	}
}
