package search

import (
	"context"
	"errors"
	"testing"

	"github.com/openhearth/archivesearch/internal/domain"
	domsearch "github.com/openhearth/archivesearch/internal/domain/search"
)

// --- Mocks ---

type mockRepo struct {
	semResults []domsearch.Candidate
	semErr     error
	lexResults []domsearch.Candidate
	lexErr     error
	semCalled  bool
	lexCalled  bool
	lastK      int
	lastLimit  int
}

func (m *mockRepo) FetchSemantic(
	_ context.Context, _ []float32, _ domsearch.Filter, k int,
) ([]domsearch.Candidate, error) {
	m.semCalled = true
	m.lastK = k
	return m.semResults, m.semErr
}

func (m *mockRepo) FetchLexical(
	_ context.Context, _ string, _ domsearch.Filter, limit int,
) ([]domsearch.Candidate, error) {
	m.lexCalled = true
	m.lastLimit = limit
	return m.lexResults, m.lexErr
}

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockReranker struct {
	out    []domsearch.Candidate
	err    error
	called bool
}

func (m *mockReranker) Rerank(
	_ context.Context, _ string, cands []domsearch.Candidate,
) ([]domsearch.Candidate, error) {
	m.called = true
	if m.err != nil {
		return nil, m.err
	}
	if m.out != nil {
		return m.out, nil
	}
	return cands, nil
}

func makeRequest(t *testing.T, m domsearch.Mode, limit int, rerank, folders bool) *domsearch.Request {
	t.Helper()
	r, err := domsearch.NewRequest("budget", m, domsearch.Filter{}, limit, rerank, folders)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return &r
}

// admissiblePool returns a pool the classifier accepts via filename matches
// on the "budget" query.
func admissiblePool() []domsearch.Candidate {
	return []domsearch.Candidate{
		cand("budget_1962.pdf", "", 0.40),
		cand("budget_1963.pdf", "", 0.38),
		cand("budget_1964.pdf", "", 0.36),
	}
}

// --- Tests ---

func TestSearch_Semantic(t *testing.T) {
	repo := &mockRepo{semResults: admissiblePool()}
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc := New(repo, embed, nil, DefaultOptions())

	req := makeRequest(t, domsearch.Semantic, 10, false, false)
	res, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(res.Candidates))
	}
	if !repo.semCalled {
		t.Error("expected FetchSemantic to be called")
	}
	if repo.lexCalled {
		t.Error("FetchLexical should not be called in semantic mode")
	}
	if !embed.called {
		t.Error("expected Embed to be called")
	}
	if !almostEqual(res.Candidates[0].Score, 0.90) {
		t.Errorf("expected classifier score 0.90, got %f", res.Candidates[0].Score)
	}
}

func TestSearch_Semantic_PoolSize(t *testing.T) {
	repo := &mockRepo{semResults: admissiblePool()}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed, nil, DefaultOptions())

	// Small limit still fetches the minimum pool.
	req := makeRequest(t, domsearch.Semantic, 10, false, false)
	if _, err := svc.Search(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastK != 100 {
		t.Errorf("expected pool size 100 for limit 10, got %d", repo.lastK)
	}

	// Large limit scales by the multiplier.
	req = makeRequest(t, domsearch.Semantic, 50, false, false)
	if _, err := svc.Search(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastK != 250 {
		t.Errorf("expected pool size 250 for limit 50, got %d", repo.lastK)
	}
}

func TestSearch_Keyword(t *testing.T) {
	repo := &mockRepo{lexResults: []domsearch.Candidate{
		cand("l1.pdf", "", 0), cand("l2.pdf", "", 0), cand("l3.pdf", "", 0),
	}}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed, nil, DefaultOptions())

	req := makeRequest(t, domsearch.Keyword, 10, false, false)
	res, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(res.Candidates))
	}
	if embed.called {
		t.Error("Embed should not be called in keyword mode")
	}
	if repo.semCalled {
		t.Error("FetchSemantic should not be called in keyword mode")
	}
	// Rank-derived scores descend from the base.
	want := []float64{0.95, 0.94, 0.93}
	for i, c := range res.Candidates {
		if !almostEqual(c.Score, want[i]) {
			t.Errorf("candidate %d: expected score %.2f, got %f", i, want[i], c.Score)
		}
	}
}

func TestSearch_Hybrid(t *testing.T) {
	repo := &mockRepo{
		semResults: admissiblePool(),
		lexResults: []domsearch.Candidate{cand("l1.pdf", "", 0)},
	}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed, nil, DefaultOptions())

	req := makeRequest(t, domsearch.Hybrid, 10, false, false)
	res, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.semCalled || !repo.lexCalled {
		t.Error("expected both channels to be fetched")
	}
	if len(res.Candidates) != 4 {
		t.Fatalf("expected 4 merged candidates, got %d", len(res.Candidates))
	}
	// Lexical leads each interleave step.
	if res.Candidates[0].Document.FileName != "l1.pdf" {
		t.Errorf("expected lexical candidate first, got %s", res.Candidates[0].Document.FileName)
	}
}

func TestSearch_Hybrid_Deduplicates(t *testing.T) {
	repo := &mockRepo{
		semResults: admissiblePool(),
		lexResults: []domsearch.Candidate{cand("budget_1962.pdf", "", 0)},
	}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed, nil, DefaultOptions())

	req := makeRequest(t, domsearch.Hybrid, 10, false, false)
	res, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Candidates) != 3 {
		t.Fatalf("expected 3 candidates after dedup, got %d", len(res.Candidates))
	}
}

func TestSearch_Hybrid_LexicalError(t *testing.T) {
	repo := &mockRepo{
		semResults: admissiblePool(),
		lexErr:     errors.New("text index unavailable"),
	}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed, nil, DefaultOptions())

	req := makeRequest(t, domsearch.Hybrid, 10, false, false)
	if _, err := svc.Search(context.Background(), req); err == nil {
		t.Fatal("expected error when lexical channel fails")
	}
}

func TestSearch_Hybrid_EmbedError(t *testing.T) {
	repo := &mockRepo{lexResults: []domsearch.Candidate{cand("l1.pdf", "", 0)}}
	embed := &mockEmbedder{err: errors.New("embedding provider down")}
	svc := New(repo, embed, nil, DefaultOptions())

	req := makeRequest(t, domsearch.Hybrid, 10, false, false)
	if _, err := svc.Search(context.Background(), req); err == nil {
		t.Fatal("expected error when embedding fails")
	}
}

func TestSearch_Rerank(t *testing.T) {
	pool := admissiblePool()
	reversed := []domsearch.Candidate{pool[2], pool[1], pool[0]}
	repo := &mockRepo{semResults: pool}
	embed := &mockEmbedder{vec: []float32{0.1}}
	rerank := &mockReranker{out: reversed}
	svc := New(repo, embed, rerank, DefaultOptions())

	req := makeRequest(t, domsearch.Semantic, 10, true, false)
	res, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rerank.called {
		t.Error("expected reranker to be called")
	}
	if res.Candidates[0].Document.FileName != "budget_1964.pdf" {
		t.Errorf("expected reranked order, got %s first", res.Candidates[0].Document.FileName)
	}
}

func TestSearch_RerankFailure_KeepsOrder(t *testing.T) {
	repo := &mockRepo{semResults: admissiblePool()}
	embed := &mockEmbedder{vec: []float32{0.1}}
	rerank := &mockReranker{err: errors.New("model overloaded")}
	svc := New(repo, embed, rerank, DefaultOptions())

	req := makeRequest(t, domsearch.Semantic, 10, true, false)
	res, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("rerank failure must not fail the search: %v", err)
	}
	if !rerank.called {
		t.Error("expected reranker to be called")
	}
	if res.Candidates[0].Document.FileName != "budget_1962.pdf" {
		t.Errorf("expected classifier order kept, got %s first", res.Candidates[0].Document.FileName)
	}
}

func TestSearch_RerankNotRequested(t *testing.T) {
	repo := &mockRepo{semResults: admissiblePool()}
	embed := &mockEmbedder{vec: []float32{0.1}}
	rerank := &mockReranker{}
	svc := New(repo, embed, rerank, DefaultOptions())

	req := makeRequest(t, domsearch.Semantic, 10, false, false)
	if _, err := svc.Search(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rerank.called {
		t.Error("reranker must not run unless requested")
	}
}

func TestSearch_IncludeFolders(t *testing.T) {
	pool := admissiblePool()
	for i := range pool {
		pool[i].Document.FolderPath = "Archive > Budgets"
	}
	repo := &mockRepo{semResults: pool}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed, nil, DefaultOptions())

	req := makeRequest(t, domsearch.Semantic, 10, false, true)
	res, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Folders) != 1 {
		t.Fatalf("expected 1 folder group, got %d", len(res.Folders))
	}
	if res.Folders[0].MatchCount != 3 {
		t.Errorf("expected 3 folder matches, got %d", res.Folders[0].MatchCount)
	}
}

func TestSearch_EmptyPool_NoError(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed, nil, DefaultOptions())

	req := makeRequest(t, domsearch.Semantic, 10, false, false)
	res, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("empty corpus must not error: %v", err)
	}
	if len(res.Candidates) != 0 {
		t.Fatalf("expected no candidates, got %d", len(res.Candidates))
	}
}
