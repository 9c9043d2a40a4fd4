// Package chi implements the HTTP API on top of the go-chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
	healthuc "github.com/kailas-cloud/docqa/internal/usecase/health"
	indexuc "github.com/kailas-cloud/docqa/internal/usecase/index"
	retrievaluc "github.com/kailas-cloud/docqa/internal/usecase/retrieval"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest    = "bad_request"
	codeUnauthorized  = "unauthorized"
	codeIndexNotReady = "index_not_ready"
	codeReloadFailed  = "reload_failed"
)

// Server holds the HTTP handlers for the query API.
type Server struct {
	retrieval *retrievaluc.Service
	index     *indexuc.Service
	health    *healthuc.Service
	logger    *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	retrieval *retrievaluc.Service,
	index *indexuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		retrieval: retrieval,
		index:     index,
		health:    health,
		logger:    logger,
	}
}

// Routes registers all handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/query", s.Query)
	r.Post("/reload", s.Reload)
	r.Get("/health", s.Health)
	r.Get("/debug/corpus", s.DebugCorpus)
	r.Get("/metrics", s.Metrics)
}

type queryRequest struct {
	Query string `json:"query"`
}

type resultResponse struct {
	Method       string   `json:"method"`
	Path         string   `json:"path"`
	Description  string   `json:"description"`
	Score        float64  `json:"score"`
	MatchedTerms []string `json:"matched_terms,omitempty"`
}

type queryResponse struct {
	Answer        string           `json:"answer"`
	RetrievalOnly bool             `json:"retrieval_only"`
	Confidence    float64          `json:"confidence"`
	Explanation   string           `json:"explanation"`
	Sources       []string         `json:"sources"`
	Results       []resultResponse `json:"results"`
	Context       string           `json:"context"`
}

// Query handles POST /query: retrieval plus optional answer generation.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Query is required")
		return
	}

	ans, err := s.retrieval.Ask(r.Context(), req.Query)
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotReady) {
			writeError(w, http.StatusServiceUnavailable, codeIndexNotReady, "No documentation index loaded")
			return
		}
		s.logger.Error("Query failed", zap.String("query", req.Query), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	results := make([]resultResponse, len(ans.Results))
	sources := make([]string, len(ans.Results))
	for i, v := range ans.Results {
		results[i] = resultResponse{
			Method:       v.Method,
			Path:         v.Path,
			Description:  v.Description,
			Score:        v.Score,
			MatchedTerms: v.MatchedTerms,
		}
		sources[i] = v.Name
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Answer:        ans.Text,
		RetrievalOnly: ans.RetrievalOnly,
		Confidence:    ans.Confidence,
		Explanation:   ans.Explanation,
		Sources:       sources,
		Results:       results,
		Context:       ans.Response.Context,
	})
}

type reloadResponse struct {
	Endpoints int       `json:"endpoints"`
	Skipped   int       `json:"skipped"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// Reload handles POST /reload: re-reads the corpus file and swaps the index.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	stats, err := s.index.Reload(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, codeReloadFailed, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{
		Endpoints: stats.Endpoints,
		Skipped:   stats.Skipped,
		ScrapedAt: stats.ScrapedAt,
	})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, result := range report.Checks {
		checks[name] = string(result)
	}

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}

type debugCorpusResponse struct {
	TotalEndpoints int       `json:"total_endpoints"`
	Endpoints      []string  `json:"endpoints"`
	BaseURL        string    `json:"base_url"`
	ScrapedAt      time.Time `json:"scraped_at"`
	Skipped        int       `json:"skipped"`
}

// DebugCorpus handles GET /debug/corpus: a summary of the loaded corpus.
func (s *Server) DebugCorpus(w http.ResponseWriter, _ *http.Request) {
	ix, ok := s.index.Current()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, codeIndexNotReady, "No documentation index loaded")
		return
	}

	c := ix.Corpus()
	names := make([]string, c.Len())
	for i := range c.Endpoints {
		names[i] = c.Endpoints[i].DisplayName()
	}

	writeJSON(w, http.StatusOK, debugCorpusResponse{
		TotalEndpoints: c.Len(),
		Endpoints:      names,
		BaseURL:        c.BaseURL,
		ScrapedAt:      c.ScrapedAt,
		Skipped:        c.Skipped,
	})
}

// Metrics handles GET /metrics in the Prometheus exposition format.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
