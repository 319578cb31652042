package search

import (
	"context"
	"errors"
	"testing"

	"github.com/openhearth/archivesearch/internal/db"
	domsearch "github.com/openhearth/archivesearch/internal/domain/search"
)

func TestFetchSemantic_MapsEntries(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.IndexName != "archive:doc:idx" {
			t.Errorf("unexpected index name %s", q.IndexName)
		}
		if q.K != 100 {
			t.Errorf("expected k=100, got %d", q.K)
		}
		return &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{{
				Key:   "archive:doc:abc",
				Score: 0.72,
				Fields: map[string]string{
					"file_path":        "Archive/1960s/budget_1962.pdf",
					"file_name":        "budget_1962.pdf",
					"web_view_link":    "https://drive.example/abc",
					"folder_path":      "Archive > 1960s",
					"source_type":      "primary",
					"publication_date": "1962-03-01",
					"people":           "Ada Mercer|Tomas Rivas",
					"locations":        "Cedar Falls",
					"dates":            "1962-03-01|1962-04-15",
					"summary":          "City budget proposal for fiscal year 1962.",
				},
			}},
		}, nil
	}

	cands, err := repo.FetchSemantic(context.Background(), testVector(), domsearch.Filter{}, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	c := cands[0]
	if c.RawSimilarity != 0.72 {
		t.Errorf("expected similarity 0.72, got %f", c.RawSimilarity)
	}
	if c.Document.FileName != "budget_1962.pdf" {
		t.Errorf("unexpected file name %s", c.Document.FileName)
	}
	if len(c.Document.People) != 2 || c.Document.People[0] != "Ada Mercer" {
		t.Errorf("people not split: %v", c.Document.People)
	}
	if len(c.Document.Dates) != 2 {
		t.Errorf("dates not split: %v", c.Document.Dates)
	}
	if c.Document.FolderPath != "Archive > 1960s" {
		t.Errorf("unexpected folder path %s", c.Document.FolderPath)
	}
}

func TestFetchSemantic_MissingFieldsAreZero(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{{
				Key:    "archive:doc:sparse",
				Score:  0.5,
				Fields: map[string]string{"file_name": "scan_044.jpg"},
			}},
		}, nil
	}

	cands, err := repo.FetchSemantic(context.Background(), testVector(), domsearch.Filter{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := cands[0]
	if c.Document.Summary != "" || c.Document.People != nil || c.Document.FolderPath != "" {
		t.Errorf("expected zero values for missing fields: %+v", c.Document)
	}
}

func TestFetchSemantic_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, errors.New("index missing")
	}
	if _, err := repo.FetchSemantic(context.Background(), testVector(), domsearch.Filter{}, 10); err == nil {
		t.Fatal("expected error")
	}
}

func TestFetchSemantic_EmptyResult(t *testing.T) {
	repo, _ := newTestRepo(t)
	cands, err := repo.FetchSemantic(context.Background(), testVector(), domsearch.Filter{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cands != nil {
		t.Fatalf("expected nil for empty result, got %v", cands)
	}
}

func TestFetchLexical_HighlightsExtracted(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchBM25Fn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		if !q.Highlight {
			t.Error("expected highlighting to be requested")
		}
		if q.TopK != 20 {
			t.Errorf("expected topK=20, got %d", q.TopK)
		}
		return &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{{
				Key:   "archive:doc:abc",
				Score: 3.1,
				Fields: map[string]string{
					"file_name": "<em>budget</em>_1962.pdf",
					"summary":   "City <em>budget</em> proposal.",
				},
			}},
		}, nil
	}

	cands, err := repo.FetchLexical(context.Background(), "budget", domsearch.Filter{}, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	c := cands[0]
	// Document text comes back clean.
	if c.Document.FileName != "budget_1962.pdf" {
		t.Errorf("tags not stripped from file name: %s", c.Document.FileName)
	}
	if c.Document.Summary != "City budget proposal." {
		t.Errorf("tags not stripped from summary: %s", c.Document.Summary)
	}
	// Highlights keep per-field fragments.
	if len(c.Highlights["file_name"]) != 1 {
		t.Fatalf("expected file_name highlight, got %v", c.Highlights)
	}
	if len(c.Highlights["summary"]) != 1 {
		t.Fatalf("expected summary highlight, got %v", c.Highlights)
	}
	if c.Highlights["summary"][0] != "City budget proposal." {
		t.Errorf("unexpected summary fragment: %q", c.Highlights["summary"][0])
	}
}

func TestFetchLexical_NoHighlightNoMap(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchBM25Fn = func(_ context.Context, _ *db.TextQuery) (*db.SearchResult, error) {
		return &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{{
				Key:    "archive:doc:abc",
				Score:  1.0,
				Fields: map[string]string{"file_name": "scan.pdf"},
			}},
		}, nil
	}
	cands, err := repo.FetchLexical(context.Background(), "budget", domsearch.Filter{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cands[0].Highlights != nil {
		t.Errorf("expected no highlights, got %v", cands[0].Highlights)
	}
}

func TestFetchLexical_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchBM25Fn = func(_ context.Context, _ *db.TextQuery) (*db.SearchResult, error) {
		return nil, errors.New("bm25 failed")
	}
	if _, err := repo.FetchLexical(context.Background(), "budget", domsearch.Filter{}, 10); err == nil {
		t.Fatal("expected error")
	}
}

func TestFragments_MultipleMatches(t *testing.T) {
	got := fragments("a <em>budget</em> line and another <em>budget</em> row")
	if len(got) != 2 {
		t.Fatalf("expected 2 fragments, got %d: %v", len(got), got)
	}
	for _, f := range got {
		if f == "" {
			t.Error("empty fragment")
		}
	}
}
