package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationResults tracks terminal orchestrator states per operation
	OperationResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codementor_operation_results_total",
			Help: "Total number of orchestrated operations by outcome",
		},
		[]string{"operation", "source", "category"},
	)

	// OperationRetries tracks retries issued by the retry policy
	OperationRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codementor_operation_retries_total",
			Help: "Total number of retried remote attempts",
		},
		[]string{"operation", "category"},
	)

	// RemoteLatency tracks the duration of remote attempts
	RemoteLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codementor_remote_attempt_seconds",
			Help:    "Remote attempt latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// HTTPRequests tracks API requests served
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codementor_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPLatency tracks API request latency
	HTTPLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codementor_http_request_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// LLMCalls tracks language model calls by outcome
	LLMCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codementor_llm_calls_total",
			Help: "Total number of language model calls",
		},
		[]string{"kind", "outcome"},
	)

	// CacheLookups tracks cache hits and misses
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codementor_cache_lookups_total",
			Help: "Total number of cache lookups",
		},
		[]string{"cache", "result"},
	)

	// DBConnectionPoolUsage tracks open connections as a percentage of the pool
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "codementor_db_connection_pool_usage_percent",
			Help: "Open database connections as a percentage of the maximum",
		},
	)
)
