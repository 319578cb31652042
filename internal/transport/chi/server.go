// Package chi exposes the HTTP API: search, chat, health, and metrics.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chiRouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/openhearth/archivesearch/internal/domain"
	domsearch "github.com/openhearth/archivesearch/internal/domain/search"
	chatuc "github.com/openhearth/archivesearch/internal/usecase/chat"
	healthuc "github.com/openhearth/archivesearch/internal/usecase/health"
)

// Error codes returned in the JSON error body.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeRateLimited      = "rate_limited"
	codeEmbeddingError   = "embedding_provider_error"
	codeChatError        = "chat_provider_error"
	codeRetrievalError   = "retrieval_error"
	codeInternalError    = "internal_error"
)

type searcher interface {
	Search(ctx context.Context, req *domsearch.Request) (domsearch.Result, error)
}

type asker interface {
	Ask(ctx context.Context, question string, limit int) (chatuc.Answer, error)
}

type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the archive search API.
type Server struct {
	search        searcher
	chat          asker
	health        healthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search searcher, chat asker, health healthChecker, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		chat:   chat,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingError),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, codeChatError),
		sentinelHandler(domain.ErrRetrievalFailed, http.StatusBadGateway, codeRetrievalError),
	}
	return s
}

// Routes registers all API routes on the given router.
func (s *Server) Routes(r chiRouter.Router) {
	r.Post("/v1/search", s.SearchDocuments)
	r.Post("/v1/chat", s.AskArchive)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchDocuments handles POST /v1/search.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	domReq, err := domsearch.NewRequest(
		req.Query,
		domsearch.Mode(req.Mode),
		domsearch.Filter{
			People:    req.People,
			Locations: req.Locations,
			Folder:    req.Folder,
			Dates:     domsearch.DateRange{From: req.DateFrom, To: req.DateTo},
		},
		req.Limit,
		req.Rerank,
		req.IncludeFolders,
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, err := s.search.Search(r.Context(), &domReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResultToDTO(result))
}

// AskArchive handles POST /v1/chat.
func (s *Server) AskArchive(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	answer, err := s.chat.Ask(r.Context(), req.Question, req.Limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sources := make([]resultItem, len(answer.Sources))
	for i := range answer.Sources {
		sources[i] = candidateToDTO(&answer.Sources[i])
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Answer:  answer.Answer,
		Sources: sources,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
		domain.ErrChatProviderError,
		domain.ErrRetrievalFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			s.logger.Warn("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
