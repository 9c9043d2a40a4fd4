package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
	healthuc "github.com/kailas-cloud/docqa/internal/usecase/health"
	indexuc "github.com/kailas-cloud/docqa/internal/usecase/index"
	retrievaluc "github.com/kailas-cloud/docqa/internal/usecase/retrieval"
)

type stubLoader struct {
	corpus domain.Corpus
	err    error
}

func (l *stubLoader) LoadFile(_ string) (domain.Corpus, error) {
	if l.err != nil {
		return domain.Corpus{}, l.err
	}
	return l.corpus, nil
}

type stubGenerator struct {
	answer string
	err    error
}

func (g *stubGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func (g *stubGenerator) HealthCheck(_ context.Context) error {
	return g.err
}

func testCorpus() domain.Corpus {
	return domain.Corpus{
		BaseURL: "https://example.freshservice.com",
		Endpoints: []domain.Endpoint{
			{
				Method:      "POST",
				Path:        "/api/v2/tickets",
				Name:        "Create Ticket",
				Description: "Create a new ticket in the service desk.",
			},
			{
				Method:      "GET",
				Path:        "/api/v2/tickets",
				Name:        "List Tickets",
				Description: "List all tickets.",
			},
		},
		ScrapedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// newTestRouter wires real services around an in-memory corpus. A nil
// generator means every answer is retrieval-only.
func newTestRouter(t *testing.T, loader *stubLoader, gen retrievaluc.Generator, buildIndex bool) chi.Router {
	t.Helper()

	logger := zap.NewNop()
	idx := indexuc.NewService(loader, "corpus.json", indexuc.DefaultWeights(), logger)
	if buildIndex {
		idx.SetCorpus(loader.corpus)
	}

	retrieval := retrievaluc.New(idx, gen, retrievaluc.DefaultParams(), logger)

	var genCheck healthuc.GenerationChecker
	if hc, ok := gen.(healthuc.GenerationChecker); ok {
		genCheck = hc
	}
	health := healthuc.New(idx, genCheck)

	srv := NewServer(retrieval, idx, health, logger)
	r := chi.NewRouter()
	srv.Routes(r)
	return r
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestQuery_ReturnsRankedResults(t *testing.T) {
	loader := &stubLoader{corpus: testCorpus()}
	router := newTestRouter(t, loader, nil, true)

	rr := doJSON(t, router, "POST", "/query", queryRequest{Query: "How do I create a ticket?"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var resp queryResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Results) == 0 {
		t.Fatal("expected ranked results")
	}
	if resp.Results[0].Method != "POST" || resp.Results[0].Path != "/api/v2/tickets" {
		t.Errorf("top result = %s %s, want POST /api/v2/tickets",
			resp.Results[0].Method, resp.Results[0].Path)
	}
	if !resp.RetrievalOnly {
		t.Error("expected retrieval_only answer when no generator is configured")
	}
	if len(resp.Sources) == 0 || resp.Sources[0] != "Create Ticket" {
		t.Errorf("sources = %v, want Create Ticket first", resp.Sources)
	}
	if resp.Confidence <= 0 {
		t.Errorf("confidence = %v, want > 0", resp.Confidence)
	}
	if !strings.Contains(resp.Context, "/api/v2/tickets") {
		t.Errorf("context missing endpoint path: %q", resp.Context)
	}
}

func TestQuery_GeneratedAnswer(t *testing.T) {
	loader := &stubLoader{corpus: testCorpus()}
	gen := &stubGenerator{answer: "Send a POST request to /api/v2/tickets."}
	router := newTestRouter(t, loader, gen, true)

	rr := doJSON(t, router, "POST", "/query", queryRequest{Query: "create ticket"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp queryResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Answer != gen.answer {
		t.Errorf("answer = %q, want %q", resp.Answer, gen.answer)
	}
	if resp.RetrievalOnly {
		t.Error("generated answer must not be marked retrieval_only")
	}
}

func TestQuery_EmptyQuery_400(t *testing.T) {
	loader := &stubLoader{corpus: testCorpus()}
	router := newTestRouter(t, loader, nil, true)

	rr := doJSON(t, router, "POST", "/query", queryRequest{Query: ""})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeBadRequest {
		t.Errorf("code = %q, want %q", errResp.Code, codeBadRequest)
	}
}

func TestQuery_InvalidBody_400(t *testing.T) {
	loader := &stubLoader{corpus: testCorpus()}
	router := newTestRouter(t, loader, nil, true)

	req := httptest.NewRequest("POST", "/query", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestQuery_IndexNotReady_503(t *testing.T) {
	loader := &stubLoader{corpus: testCorpus()}
	router := newTestRouter(t, loader, nil, false)

	rr := doJSON(t, router, "POST", "/query", queryRequest{Query: "create ticket"})
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeIndexNotReady {
		t.Errorf("code = %q, want %q", errResp.Code, codeIndexNotReady)
	}
}

func TestReload_Success(t *testing.T) {
	loader := &stubLoader{corpus: testCorpus()}
	router := newTestRouter(t, loader, nil, true)

	rr := doJSON(t, router, "POST", "/reload", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}

	var resp reloadResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Endpoints != 2 {
		t.Errorf("endpoints = %d, want 2", resp.Endpoints)
	}
}

func TestReload_LoaderFailure_502(t *testing.T) {
	loader := &stubLoader{corpus: testCorpus(), err: errors.New("no such file")}
	router := newTestRouter(t, loader, nil, true)

	rr := doJSON(t, router, "POST", "/reload", nil)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadGateway)
	}

	// Queries must keep working against the previous index.
	qr := doJSON(t, router, "POST", "/query", queryRequest{Query: "create ticket"})
	if qr.Code != http.StatusOK {
		t.Errorf("query after failed reload: status = %d, want %d", qr.Code, http.StatusOK)
	}
}

func TestHealth_OK(t *testing.T) {
	loader := &stubLoader{corpus: testCorpus()}
	router := newTestRouter(t, loader, &stubGenerator{answer: "a"}, true)

	rr := doJSON(t, router, "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.Checks["index"] != "ok" || resp.Checks["generation"] != "ok" {
		t.Errorf("checks = %v", resp.Checks)
	}
}

func TestHealth_GeneratorDown_Degraded200(t *testing.T) {
	loader := &stubLoader{corpus: testCorpus()}
	router := newTestRouter(t, loader, &stubGenerator{err: errors.New("upstream down")}, true)

	rr := doJSON(t, router, "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("status = %q, want degraded", resp.Status)
	}
}

func TestHealth_NoIndex_503(t *testing.T) {
	loader := &stubLoader{corpus: testCorpus()}
	router := newTestRouter(t, loader, nil, false)

	rr := doJSON(t, router, "GET", "/health", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestDebugCorpus(t *testing.T) {
	loader := &stubLoader{corpus: testCorpus()}
	router := newTestRouter(t, loader, nil, true)

	rr := doJSON(t, router, "GET", "/debug/corpus", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var resp debugCorpusResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalEndpoints != 2 {
		t.Errorf("total_endpoints = %d, want 2", resp.TotalEndpoints)
	}
	if len(resp.Endpoints) != 2 || resp.Endpoints[0] != "Create Ticket" {
		t.Errorf("endpoints = %v", resp.Endpoints)
	}
	if resp.BaseURL != "https://example.freshservice.com" {
		t.Errorf("base_url = %q", resp.BaseURL)
	}
}

func TestDebugCorpus_NoIndex_503(t *testing.T) {
	loader := &stubLoader{corpus: testCorpus()}
	router := newTestRouter(t, loader, nil, false)

	rr := doJSON(t, router, "GET", "/debug/corpus", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}
