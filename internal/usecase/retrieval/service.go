// Package retrieval implements the query-time pipeline: analyze the
// question, score every indexed endpoint against it, assemble a bounded
// context, and optionally ask the generator for a final answer.
package retrieval

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docqa/internal/domain"
	"github.com/kailas-cloud/docqa/internal/domain/token"
	"github.com/kailas-cloud/docqa/internal/metrics"
	"github.com/kailas-cloud/docqa/internal/usecase/index"
)

const (
	noMatchAnswer = "I couldn't find any relevant information in the API documentation for your query. " +
		"Please try asking about specific endpoints, for example creating, updating, or listing tickets."

	retrievalOnlyPrefix = "I found some relevant information but could not generate an answer. " +
		"Here's what I found:\n\n"
)

// Params are the retrieval tuning knobs.
type Params struct {
	TopK            int
	MaxContextChars int
	Bonuses         Bonuses
}

// DefaultParams returns the documented retrieval defaults.
func DefaultParams() Params {
	return Params{TopK: 5, MaxContextChars: 8000, Bonuses: DefaultBonuses()}
}

// ResultView is a ranked hit materialized against the index snapshot it was
// computed on, safe to return after the index has been swapped.
type ResultView struct {
	Name         string
	Method       string
	Path         string
	Description  string
	Score        float64
	MatchedTerms []string
}

// Answer is the full outcome of one question: the retrieval response plus
// the (possibly degraded) generated answer.
type Answer struct {
	Response      domain.RetrievalResponse
	Results       []ResultView
	Text          string
	RetrievalOnly bool
	Confidence    float64
	Explanation   string
}

// Service runs retrieval and answer generation against the current index.
type Service struct {
	index  IndexProvider
	gen    Generator
	params Params
	logger *zap.Logger
}

// New creates a retrieval service. gen may be nil, in which case every
// answer is retrieval-only.
func New(provider IndexProvider, gen Generator, params Params, logger *zap.Logger) *Service {
	return &Service{index: provider, gen: gen, params: params, logger: logger}
}

// Analyze normalizes a raw question into a Query. Shares the corpus
// tokenizer, so query terms and index terms always stay comparable.
func Analyze(raw string) domain.Query {
	return domain.Query{Raw: raw, Terms: token.Normalize(raw)}
}

// Retrieve runs the ranking pipeline for one question.
func (s *Service) Retrieve(rawQuery string) (domain.RetrievalResponse, error) {
	ix, ok := s.index.Current()
	if !ok {
		return domain.RetrievalResponse{}, domain.ErrIndexNotReady
	}
	resp, _ := s.retrieve(ix, Analyze(rawQuery))
	return resp, nil
}

func (s *Service) retrieve(ix *index.Index, q domain.Query) (domain.RetrievalResponse, float64) {
	start := time.Now()

	results := rank(ix, q, s.params.TopK, s.params.Bonuses)
	resp := assemble(ix.Corpus(), results, s.params.MaxContextChars)
	conf := confidence(q, resp.Context, resp.Results)

	metrics.QueryDuration.Observe(time.Since(start).Seconds())
	outcome := "matched"
	if len(resp.Results) == 0 {
		outcome = "empty"
	}
	metrics.QueriesTotal.WithLabelValues(outcome).Inc()

	return resp, conf
}

// Ask retrieves context for the question and generates an answer from it.
// Generator failures never fail the query: the response degrades to a
// retrieval-only answer built from the assembled context.
func (s *Service) Ask(ctx context.Context, rawQuery string) (Answer, error) {
	ix, ok := s.index.Current()
	if !ok {
		return Answer{}, domain.ErrIndexNotReady
	}

	q := Analyze(rawQuery)
	resp, conf := s.retrieve(ix, q)

	ans := Answer{
		Response:    resp,
		Results:     materialize(ix, resp.Results),
		Confidence:  conf,
		Explanation: explain(ix, resp, conf),
	}

	if len(resp.Results) == 0 {
		ans.Text = noMatchAnswer
		ans.RetrievalOnly = true
		return ans, nil
	}

	if s.gen == nil {
		ans.Text = retrievalOnlyPrefix + resp.Context
		ans.RetrievalOnly = true
		return ans, nil
	}

	text, err := s.gen.Generate(ctx, rawQuery, resp.Context)
	if err != nil {
		s.logger.Warn("Answer generation failed, returning retrieval-only response",
			zap.String("query", rawQuery),
			zap.Error(err),
		)
		ans.Text = retrievalOnlyPrefix + resp.Context
		ans.RetrievalOnly = true
		return ans, nil
	}

	ans.Text = text
	return ans, nil
}

func materialize(ix *index.Index, results []domain.RankedResult) []ResultView {
	views := make([]ResultView, len(results))
	for i, r := range results {
		ep := &ix.Corpus().Endpoints[r.Position]
		views[i] = ResultView{
			Name:         ep.DisplayName(),
			Method:       ep.Method,
			Path:         ep.Path,
			Description:  ep.Description,
			Score:        r.Score,
			MatchedTerms: r.MatchedTerms,
		}
	}
	return views
}

func explain(ix *index.Index, resp domain.RetrievalResponse, conf float64) string {
	msg := fmt.Sprintf("Found %d relevant endpoints. ", len(resp.Results))
	if len(resp.Results) > 0 {
		best := resp.Results[0]
		ep := &ix.Corpus().Endpoints[best.Position]
		msg += fmt.Sprintf("Best match: %q with score %.2f. ", ep.DisplayName(), best.Score)
	}
	return msg + fmt.Sprintf("Overall confidence: %.2f", conf)
}
