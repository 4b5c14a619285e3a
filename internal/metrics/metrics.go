package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "platform_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Ledger Metrics
	UsersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "platform_users_created_total",
			Help: "Total number of accounts created",
		},
	)

	CoinsAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_coins_awarded_total",
			Help: "Total coins credited to users",
		},
		[]string{"reason"},
	)

	CoinsSpentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "platform_coins_spent_total",
			Help: "Total coins debited for submissions",
		},
	)

	// Workflow Metrics
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_submissions_total",
			Help: "Total number of submission attempts",
		},
		[]string{"outcome"},
	)

	SubmissionDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_submission_decisions_total",
			Help: "Total number of operator decisions",
		},
		[]string{"decision"},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "platform_catalog_size",
			Help: "Number of published videos in the catalog",
		},
	)

	// Resolver Metrics
	ResolverRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_resolver_requests_total",
			Help: "Total number of metadata resolver calls",
		},
		[]string{"status"},
	)

	ResolverRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "platform_resolver_request_duration_seconds",
			Help:    "Metadata resolver call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Cache Metrics
	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platform_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordUserCreated records an account creation
func RecordUserCreated() {
	UsersCreatedTotal.Inc()
}

// RecordCoinsAwarded records a coin credit
func RecordCoinsAwarded(reason string, amount int) {
	CoinsAwardedTotal.WithLabelValues(reason).Add(float64(amount))
}

// RecordCoinsSpent records a coin debit
func RecordCoinsSpent(amount int) {
	CoinsSpentTotal.Add(float64(amount))
}

// RecordSubmission records a submission attempt outcome
func RecordSubmission(outcome string) {
	SubmissionsTotal.WithLabelValues(outcome).Inc()
}

// RecordDecision records an operator decision
func RecordDecision(decision string) {
	SubmissionDecisionsTotal.WithLabelValues(decision).Inc()
}

// SetCatalogSize updates the published catalog gauge
func SetCatalogSize(n int) {
	CatalogSize.Set(float64(n))
}

// RecordResolverRequest records a metadata resolver call
func RecordResolverRequest(ok bool, duration float64) {
	status := "ok"
	if !ok {
		status = "error"
	}
	ResolverRequestsTotal.WithLabelValues(status).Inc()
	ResolverRequestDuration.Observe(duration)
}

// RecordCacheAccess records cache hit or miss
func RecordCacheAccess(cacheType string, hit bool) {
	if hit {
		CacheHitsTotal.WithLabelValues(cacheType).Inc()
	} else {
		CacheMissesTotal.WithLabelValues(cacheType).Inc()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
