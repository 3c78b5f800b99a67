package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the literature digest service,
// organized by subsystem: digests, source searches, author stats, and LLM
// operations. All counters and histograms are registered via promauto with
// the default Prometheus registry.
type Metrics struct {
	// DigestsStarted counts digest requests initiated.
	DigestsStarted prometheus.Counter

	// DigestsCompleted counts digest requests that finished successfully.
	DigestsCompleted prometheus.Counter

	// DigestsFailed counts digest requests that ended in failure.
	DigestsFailed prometheus.Counter

	// DigestDuration observes the end-to-end duration of a digest in seconds.
	DigestDuration prometheus.Histogram

	// PapersFound observes how many papers the source searches returned per digest.
	PapersFound prometheus.Histogram

	// PapersSummarized observes how many papers made it into the summary per digest.
	PapersSummarized prometheus.Histogram

	// SearchesStarted counts searches initiated, labeled by paper source.
	SearchesStarted *prometheus.CounterVec

	// SearchesCompleted counts successful searches, labeled by paper source.
	SearchesCompleted *prometheus.CounterVec

	// SearchesFailed counts failed searches, labeled by paper source.
	SearchesFailed *prometheus.CounterVec

	// SearchDuration observes search duration in seconds, labeled by paper source.
	SearchDuration *prometheus.HistogramVec

	// PapersPerSearch observes the distribution of papers returned per search, labeled by source.
	PapersPerSearch *prometheus.HistogramVec

	// AuthorStatsLookups counts author statistic lookups, labeled by outcome
	// ("hit", "miss", "error").
	AuthorStatsLookups *prometheus.CounterVec

	// LLMRequestsTotal counts LLM API requests, labeled by provider and model.
	LLMRequestsTotal *prometheus.CounterVec

	// LLMRequestsFailed counts failed LLM API requests, labeled by provider, model, and error type.
	LLMRequestsFailed *prometheus.CounterVec

	// LLMRequestDuration observes LLM API request duration in seconds, labeled by provider and model.
	LLMRequestDuration *prometheus.HistogramVec

	// LLMTokensUsed counts tokens consumed by LLM requests, labeled by provider, model, and token type.
	LLMTokensUsed *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Digests
		DigestsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digests_started_total",
			Help:      "Total number of digest requests started",
		}),
		DigestsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digests_completed_total",
			Help:      "Total number of digest requests completed successfully",
		}),
		DigestsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digests_failed_total",
			Help:      "Total number of digest requests that failed",
		}),
		DigestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "digest_duration_seconds",
			Help:      "Duration of digest requests in seconds",
			Buckets:   []float64{1, 2, 5, 10, 30, 60, 120, 300},
		}),
		PapersFound: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "papers_found_per_digest",
			Help:      "Number of papers found by source searches per digest",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
		}),
		PapersSummarized: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "papers_summarized_per_digest",
			Help:      "Number of papers summarized per digest",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),

		// Searches
		SearchesStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_started_total",
			Help:      "Total number of paper searches started by source",
		}, []string{"source"}),
		SearchesCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_completed_total",
			Help:      "Total number of paper searches completed by source",
		}, []string{"source"}),
		SearchesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_failed_total",
			Help:      "Total number of paper searches that failed by source",
		}, []string{"source"}),
		SearchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of paper searches in seconds by source",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"source"}),
		PapersPerSearch: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "papers_per_search",
			Help:      "Number of papers returned per search by source",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
		}, []string{"source"}),

		// Author stats
		AuthorStatsLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "author_stats_lookups_total",
			Help:      "Total number of author statistic lookups by outcome",
		}, []string{"outcome"}),

		// LLM
		LLMRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of LLM requests by provider",
		}, []string{"provider", "model"}),
		LLMRequestsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_failed_total",
			Help:      "Total number of failed LLM requests by provider",
		}, []string{"provider", "model", "error_type"}),
		LLMRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Duration of LLM requests in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"provider", "model"}),
		LLMTokensUsed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_used_total",
			Help:      "Total number of tokens used by LLM requests",
		}, []string{"provider", "model", "token_type"}),
	}
}

// RecordDigestStarted records that a digest request has started.
func (m *Metrics) RecordDigestStarted() {
	m.DigestsStarted.Inc()
}

// RecordDigestCompleted records a successful digest with its paper counts.
func (m *Metrics) RecordDigestCompleted(durationSeconds float64, papersFound, papersSummarized int) {
	m.DigestsCompleted.Inc()
	m.DigestDuration.Observe(durationSeconds)
	m.PapersFound.Observe(float64(papersFound))
	m.PapersSummarized.Observe(float64(papersSummarized))
}

// RecordDigestFailed records that a digest request has failed.
func (m *Metrics) RecordDigestFailed(durationSeconds float64) {
	m.DigestsFailed.Inc()
	m.DigestDuration.Observe(durationSeconds)
}

// RecordSearchStarted records that a search has started.
func (m *Metrics) RecordSearchStarted(source string) {
	m.SearchesStarted.WithLabelValues(source).Inc()
}

// RecordSearchCompleted records that a search has completed.
func (m *Metrics) RecordSearchCompleted(source string, paperCount int, durationSeconds float64) {
	m.SearchesCompleted.WithLabelValues(source).Inc()
	m.SearchDuration.WithLabelValues(source).Observe(durationSeconds)
	m.PapersPerSearch.WithLabelValues(source).Observe(float64(paperCount))
}

// RecordSearchFailed records that a search has failed.
func (m *Metrics) RecordSearchFailed(source string, durationSeconds float64) {
	m.SearchesFailed.WithLabelValues(source).Inc()
	m.SearchDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordAuthorStatsLookup records an author statistic lookup outcome.
func (m *Metrics) RecordAuthorStatsLookup(outcome string) {
	m.AuthorStatsLookups.WithLabelValues(outcome).Inc()
}

// RecordLLMRequest records an LLM request.
func (m *Metrics) RecordLLMRequest(provider, model string, durationSeconds float64, inputTokens, outputTokens int) {
	m.LLMRequestsTotal.WithLabelValues(provider, model).Inc()
	m.LLMRequestDuration.WithLabelValues(provider, model).Observe(durationSeconds)
	m.LLMTokensUsed.WithLabelValues(provider, model, "input").Add(float64(inputTokens))
	m.LLMTokensUsed.WithLabelValues(provider, model, "output").Add(float64(outputTokens))
}

// RecordLLMRequestFailed records a failed LLM request.
func (m *Metrics) RecordLLMRequestFailed(provider, model, errorType string) {
	m.LLMRequestsFailed.WithLabelValues(provider, model, errorType).Inc()
}
