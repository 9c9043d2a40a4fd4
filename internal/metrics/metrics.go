// Package metrics defines the prometheus collectors for the retrieval
// pipeline and the HTTP layer.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "docqa"

var (
	// QueriesTotal counts retrieval queries by outcome ("matched" / "empty").
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of retrieval queries by outcome",
		},
		[]string{"outcome"},
	)

	// QueryDuration observes end-to-end retrieval latency (excluding answer
	// generation).
	QueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Retrieval pipeline duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// CorpusEndpoints tracks the size of the active corpus.
	CorpusEndpoints = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "corpus_endpoints",
			Help:      "Number of endpoint records in the active index",
		},
	)

	// CorpusReloadsTotal counts corpus (re)loads by status ("success" / "error").
	CorpusReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corpus_reloads_total",
			Help:      "Total number of corpus loads by status",
		},
		[]string{"status"},
	)

	// LLMRequestsTotal counts answer generation calls by model and status.
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of answer generation requests",
		},
		[]string{"model", "status"},
	)

	// LLMRequestDuration observes answer generation latency per model.
	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Answer generation request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	// AnswerCacheTotal counts answer cache lookups by result ("hit" / "miss").
	AnswerCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answer_cache_total",
			Help:      "Answer cache lookups by result",
		},
		[]string{"result"},
	)
)

// RegisterRetrievalMetrics registers the retrieval and generation collectors.
// Called explicitly from the composition root (no init side effects).
func RegisterRetrievalMetrics() {
	prometheus.MustRegister(
		QueriesTotal,
		QueryDuration,
		CorpusEndpoints,
		CorpusReloadsTotal,
		LLMRequestsTotal,
		LLMRequestDuration,
		AnswerCacheTotal,
	)
}
