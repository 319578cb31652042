package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domsearch "github.com/openhearth/archivesearch/internal/domain/search"
	"github.com/openhearth/archivesearch/internal/logger"
	"github.com/openhearth/archivesearch/internal/metrics"
)

// Lexical candidates get rank-derived scores on the same scale as the
// classifier output so that merged lists read consistently. The merge
// itself is positional, so these scores never reorder anything.
const (
	lexicalBaseScore   = 0.95
	lexicalRankPenalty = 0.01
	lexicalScoreFloor  = 0.50
)

// Options tunes pool sizing and folder aggregation for a search service.
type Options struct {
	Thresholds Thresholds
	// MinCandidatePool is the smallest KNN fetch size; small limits still
	// retrieve a pool wide enough for the variance statistics to mean
	// anything.
	MinCandidatePool int
	// CandidateMultiplier scales the KNN fetch size with the requested
	// limit.
	CandidateMultiplier int
	// MinFolderMatches is the hit count a folder needs before it appears
	// in aggregation output.
	MinFolderMatches int
}

// DefaultOptions returns the tuned service parameters.
func DefaultOptions() Options {
	return Options{
		Thresholds:          DefaultThresholds(),
		MinCandidatePool:    100,
		CandidateMultiplier: 5,
		MinFolderMatches:    3,
	}
}

// Service handles archive search across semantic, keyword, and hybrid modes.
type Service struct {
	repo   Repository
	embed  Embedder
	rerank Reranker // nil disables re-ranking
	opts   Options
}

// New creates a search service. rerank may be nil, in which case rerank
// requests silently keep the classifier order.
func New(repo Repository, embed Embedder, rerank Reranker, opts Options) *Service {
	if opts.MinCandidatePool <= 0 {
		opts.MinCandidatePool = DefaultOptions().MinCandidatePool
	}
	if opts.CandidateMultiplier <= 0 {
		opts.CandidateMultiplier = DefaultOptions().CandidateMultiplier
	}
	if opts.MinFolderMatches <= 0 {
		opts.MinFolderMatches = DefaultOptions().MinFolderMatches
	}
	return &Service{repo: repo, embed: embed, rerank: rerank, opts: opts}
}

// Search executes an archive search in the requested mode, applies the
// relevance classifier to semantic candidates, optionally re-ranks, and
// optionally aggregates results by folder.
func (s *Service) Search(ctx context.Context, req *domsearch.Request) (domsearch.Result, error) {
	var (
		cands []domsearch.Candidate
		err   error
	)
	switch req.Mode() {
	case domsearch.Semantic:
		cands, err = s.searchSemantic(ctx, req)
	case domsearch.Keyword:
		cands, err = s.searchKeyword(ctx, req)
	case domsearch.Hybrid:
		cands, err = s.searchHybrid(ctx, req)
	default:
		err = fmt.Errorf("unsupported search mode: %s", req.Mode())
	}
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(string(req.Mode()), "error").Inc()
		return domsearch.Result{}, err
	}
	metrics.SearchRequestsTotal.WithLabelValues(string(req.Mode()), "ok").Inc()

	if len(cands) > req.Limit() {
		cands = cands[:req.Limit()]
	}

	if req.Rerank() && s.rerank != nil && len(cands) > 1 {
		reranked, rerr := s.rerank.Rerank(ctx, req.Query(), cands)
		if rerr != nil {
			// Re-ranking is best-effort: keep the classifier order.
			logger.FromContext(ctx).Warn("rerank failed, keeping prior order", zap.Error(rerr))
			metrics.RerankFallbacksTotal.Inc()
		} else {
			cands = reranked
		}
	}

	res := domsearch.Result{Candidates: cands}
	if req.IncludeFolders() {
		res.Folders = AggregateFolders(cands, s.opts.MinFolderMatches)
	}
	return res, nil
}

// poolSize returns the KNN fetch width for a requested limit.
func (s *Service) poolSize(limit int) int {
	k := s.opts.CandidateMultiplier * limit
	if k < s.opts.MinCandidatePool {
		k = s.opts.MinCandidatePool
	}
	return k
}

// searchSemantic embeds the query, retrieves a wide candidate pool, and
// runs the relevance classifier over it.
func (s *Service) searchSemantic(
	ctx context.Context, req *domsearch.Request,
) ([]domsearch.Candidate, error) {
	embResult, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	pool, err := s.repo.FetchSemantic(ctx, embResult.Embedding, req.Filter(), s.poolSize(req.Limit()))
	if err != nil {
		return nil, fmt.Errorf("fetch semantic: %w", err)
	}

	cands, outcome := s.opts.Thresholds.Classify(pool, req.Query(), req.Limit())
	metrics.SearchRelevanceTotal.WithLabelValues(string(outcome)).Inc()
	if outcome != OutcomeAccepted {
		logger.FromContext(ctx).Debug("relevance classifier rejected pool",
			zap.String("outcome", string(outcome)),
			zap.Int("pool_size", len(pool)),
		)
	}
	return cands, nil
}

// searchKeyword runs full-text retrieval only and derives scores from the
// engine's rank order.
func (s *Service) searchKeyword(
	ctx context.Context, req *domsearch.Request,
) ([]domsearch.Candidate, error) {
	cands, err := s.repo.FetchLexical(ctx, req.Query(), req.Filter(), req.Limit())
	if err != nil {
		return nil, fmt.Errorf("fetch lexical: %w", err)
	}
	return scoreLexical(cands), nil
}

// searchHybrid retrieves both channels concurrently and interleaves them.
// Either channel failing fails the whole search.
func (s *Service) searchHybrid(
	ctx context.Context, req *domsearch.Request,
) ([]domsearch.Candidate, error) {
	var (
		lexical []domsearch.Candidate
		lexErr  error
		done    = make(chan struct{})
	)
	go func() {
		defer close(done)
		lexical, lexErr = s.repo.FetchLexical(ctx, req.Query(), req.Filter(), req.Limit())
	}()

	semantic, semErr := s.searchSemantic(ctx, req)
	<-done

	if lexErr != nil {
		return nil, fmt.Errorf("fetch lexical: %w", lexErr)
	}
	if semErr != nil {
		return nil, semErr
	}

	return MergeChannels(scoreLexical(lexical), semantic, req.Limit()), nil
}

// scoreLexical assigns descending rank scores to engine-ordered lexical
// candidates.
func scoreLexical(cands []domsearch.Candidate) []domsearch.Candidate {
	for i := range cands {
		score := lexicalBaseScore - lexicalRankPenalty*float64(i)
		if score < lexicalScoreFloor {
			score = lexicalScoreFloor
		}
		cands[i].Score = score
	}
	return cands
}
