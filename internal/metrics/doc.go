// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package metrics provides Prometheus metrics for Plexboard.

All collectors are registered on the default registry through promauto and
exposed at /metrics.

# Available Metrics

HTTP:
  - api_requests_total (method, endpoint, status_code)
  - api_request_duration_seconds (method, endpoint)
  - api_active_requests
  - api_rate_limit_hits_total (scope)

Caches:
  - cache_hits_total, cache_misses_total, cache_entries, cache_evictions_total (cache_type)

Posters:
  - poster_requests_total (layer: memory, disk, upstream)
  - poster_upstream_fetches_total (source, result)
  - poster_upstream_duration_seconds (source)
  - poster_dedup_waits_total
  - poster_throttle_wait_seconds
  - poster_disk_entries, poster_disk_bytes
  - poster_disk_gc_runs_total (result)

Upstreams:
  - tautulli_proxy_requests_total (cmd, result)
  - circuit_breaker_state (name): 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total (name, result)
  - circuit_breaker_consecutive_failures (name)
  - circuit_breaker_state_transitions_total (name, from, to)

Store, events and websocket:
  - store_writes_total (kind, result), store_reloads_total (result)
  - events_published_total (type), events_dropped_total (reason)
  - websocket_connections, websocket_messages_sent_total,
    websocket_messages_received_total, websocket_errors_total (error_type)

# Usage

	start := time.Now()
	// ... handle request ...
	metrics.RecordAPIRequest("GET", "/api/posters/{ratingKey}", "200", time.Since(start))
*/
package metrics
