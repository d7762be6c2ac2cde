// Package chi exposes the search service over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/reelfind/reelfind/internal/domain"
	"github.com/reelfind/reelfind/internal/domain/catalog"
	"github.com/reelfind/reelfind/internal/domain/search/filter"
	"github.com/reelfind/reelfind/internal/domain/search/result"
	healthuc "github.com/reelfind/reelfind/internal/usecase/health"
	"github.com/reelfind/reelfind/internal/usecase/present"
	searchuc "github.com/reelfind/reelfind/internal/usecase/search"
)

// Error codes returned in the JSON error body.
const (
	ErrorCodeBadRequest             = "bad_request"
	ErrorCodeEmbeddingProviderError = "embedding_provider_error"
	ErrorCodeInternalError          = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// SearchRequest is the POST /v1/search body.
type SearchRequest struct {
	Query string `json:"query"`
}

// FiltersPayload echoes the soft filters applied to the query.
type FiltersPayload struct {
	Genres  []string `json:"genres,omitempty"`
	Year    string   `json:"year,omitempty"`
	Country string   `json:"country,omitempty"`
	Person  string   `json:"person,omitempty"`
}

// MatchPayload is one selected catalog row.
type MatchPayload struct {
	Title       string  `json:"title"`
	ReleaseYear string  `json:"release_year"`
	Genres      string  `json:"genres"`
	Country     string  `json:"country,omitempty"`
	Director    string  `json:"director,omitempty"`
	Cast        string  `json:"cast,omitempty"`
	Score       float64 `json:"score"`
}

// SearchResponse is the POST /v1/search reply.
type SearchResponse struct {
	Response string         `json:"response"`
	Filters  FiltersPayload `json:"filters"`
	Results  []MatchPayload `json:"results"`
}

// StatsResponse is the GET /v1/catalog/stats reply.
type StatsResponse struct {
	Rows       int `json:"rows"`
	Dimensions int `json:"dimensions"`
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the GET /healthz reply.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Server wires the use case services into HTTP handlers.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	store         *catalog.Store
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	store *catalog.Store,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		health: health,
		store:  store,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, ErrorCodeEmbeddingProviderError),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chirouter.Router) {
	r.Post("/v1/search", s.Search)
	r.Get("/v1/catalog/stats", s.CatalogStats)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles POST /v1/search. An empty query is allowed and falls back
// to unfiltered similarity ranking.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	matches, filters, err := s.search.Search(r.Context(), strings.TrimSpace(req.Query))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Response: present.Render(matches),
		Filters:  filtersToPayload(filters),
		Results:  matchesToPayload(matches),
	})
}

// CatalogStats handles GET /v1/catalog/stats.
func (s *Server) CatalogStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatsResponse{
		Rows:       s.store.Len(),
		Dimensions: s.store.Dimensions(),
	})
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func filtersToPayload(f filter.Set) FiltersPayload {
	return FiltersPayload{
		Genres:  f.Genres(),
		Year:    f.Year(),
		Country: f.Country(),
		Person:  f.Person(),
	}
}

func matchesToPayload(matches []result.Match) []MatchPayload {
	items := make([]MatchPayload, len(matches))
	for i, m := range matches {
		row := m.Row()
		items[i] = MatchPayload{
			Title:       row.Title(),
			ReleaseYear: row.ReleaseYear(),
			Genres:      row.Genres(),
			Country:     row.Country(),
			Director:    row.Director(),
			Cast:        row.Cast(),
			Score:       m.Score(),
		}
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmbeddingProviderError,
		domain.ErrExtractionProviderError,
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
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
