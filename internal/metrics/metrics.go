// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"scope"},
	)

	// Response cache metrics, cache_type is "api" or "poster_memory"
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions",
		},
		[]string{"cache_type"},
	)

	// Poster Cache Metrics
	PosterRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_requests_total",
			Help: "Poster lookups by the layer that answered them",
		},
		[]string{"layer"}, // memory, disk, upstream
	)

	PosterUpstreamFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_upstream_fetches_total",
			Help: "Upstream poster fetch attempts by source and result",
		},
		[]string{"source", "result"}, // result: success, miss, error, oversize
	)

	PosterUpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poster_upstream_duration_seconds",
			Help:    "Duration of upstream poster fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"source"},
	)

	PosterDedupWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poster_dedup_waits_total",
			Help: "Poster requests that joined an in-flight upstream fetch",
		},
	)

	PosterThrottleWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poster_throttle_wait_seconds",
			Help:    "Time spent waiting for the upstream poster rate limiter",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	PosterDiskEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poster_disk_entries",
			Help: "Number of posters in the persisted cache",
		},
	)

	PosterDiskBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poster_disk_bytes",
			Help: "On-disk size of the persisted poster cache (LSM + value log)",
		},
	)

	PosterDiskGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_disk_gc_runs_total",
			Help: "Value log garbage collection runs",
		},
		[]string{"result"}, // rewritten, nothing, error
	)

	// Tautulli Proxy Metrics
	TautulliProxyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tautulli_proxy_requests_total",
			Help: "Passthrough Tautulli API requests",
		},
		[]string{"cmd", "result"}, // result: success, error, denied
	)

	// Document Store Metrics
	StoreWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_writes_total",
			Help: "Document store writes by kind and result",
		},
		[]string{"kind", "result"},
	)

	StoreReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_reloads_total",
			Help: "Reloads of formats.json after external edits",
		},
		[]string{"result"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Events published on the in-process bus",
		},
		[]string{"type"},
	)

	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_dropped_total",
			Help: "Events that could not be decoded or delivered",
		},
		[]string{"reason"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Log Endpoint Metrics
	ClientLogEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_log_entries_total",
			Help: "Log entries submitted by browser clients",
		},
		[]string{"level"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordPosterRequest counts a poster answered by layer.
func RecordPosterRequest(layer string) {
	PosterRequests.WithLabelValues(layer).Inc()
}

// RecordPosterFetch records one upstream fetch attempt.
func RecordPosterFetch(source, result string, duration time.Duration) {
	PosterUpstreamFetches.WithLabelValues(source, result).Inc()
	PosterUpstreamDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// UpdatePosterDiskGauges sets the persisted cache gauges.
func UpdatePosterDiskGauges(entries, bytes int64) {
	PosterDiskEntries.Set(float64(entries))
	PosterDiskBytes.Set(float64(bytes))
}

// RecordStoreWrite records a document write outcome.
func RecordStoreWrite(kind string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	StoreWrites.WithLabelValues(kind, result).Inc()
}

// RecordTautulliProxy records a passthrough call outcome.
// Denied commands are recorded under cmd "denied" to bound label cardinality.
func RecordTautulliProxy(cmd, result string) {
	if result == "denied" {
		cmd = "denied"
	}
	TautulliProxyRequests.WithLabelValues(cmd, result).Inc()
}

// RecordUptime sets the uptime gauge from the process start time.
func RecordUptime(start time.Time) {
	AppUptime.Set(time.Since(start).Seconds())
}
