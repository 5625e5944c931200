// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
	}{
		{"poster hit", "GET", "/api/posters/{ratingKey}", "200"},
		{"not modified", "GET", "/api/posters/{ratingKey}", "304"},
		{"store write", "PUT", "/api/formats", "200"},
		{"upstream failure", "GET", "/api/dashboard/activity", "502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode))
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, 5*time.Millisecond)
			after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode))
			if after-before != 1 {
				t.Errorf("api_requests_total delta = %v, want 1", after-before)
			}
		})
	}
}

func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)

	for i := 0; i < 10; i++ {
		TrackActiveRequest(true)
	}
	if got := testutil.ToFloat64(APIActiveRequests) - start; got != 10 {
		t.Errorf("active delta = %v, want 10", got)
	}
	for i := 0; i < 10; i++ {
		TrackActiveRequest(false)
	}
	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("active = %v, want %v", got, start)
	}
}

func TestPosterMetrics(t *testing.T) {
	before := testutil.ToFloat64(PosterRequests.WithLabelValues("memory"))
	RecordPosterRequest("memory")
	if got := testutil.ToFloat64(PosterRequests.WithLabelValues("memory")) - before; got != 1 {
		t.Errorf("memory hit delta = %v, want 1", got)
	}

	before = testutil.ToFloat64(PosterUpstreamFetches.WithLabelValues("tmdb", "success"))
	RecordPosterFetch("tmdb", "success", 120*time.Millisecond)
	if got := testutil.ToFloat64(PosterUpstreamFetches.WithLabelValues("tmdb", "success")) - before; got != 1 {
		t.Errorf("tmdb fetch delta = %v, want 1", got)
	}

	UpdatePosterDiskGauges(42, 4096)
	if got := testutil.ToFloat64(PosterDiskEntries); got != 42 {
		t.Errorf("poster_disk_entries = %v, want 42", got)
	}
	if got := testutil.ToFloat64(PosterDiskBytes); got != 4096 {
		t.Errorf("poster_disk_bytes = %v, want 4096", got)
	}
}

func TestRecordStoreWrite(t *testing.T) {
	okBefore := testutil.ToFloat64(StoreWrites.WithLabelValues("formats", "success"))
	errBefore := testutil.ToFloat64(StoreWrites.WithLabelValues("formats", "error"))

	RecordStoreWrite("formats", nil)
	RecordStoreWrite("formats", errors.New("disk full"))

	if got := testutil.ToFloat64(StoreWrites.WithLabelValues("formats", "success")) - okBefore; got != 1 {
		t.Errorf("success delta = %v", got)
	}
	if got := testutil.ToFloat64(StoreWrites.WithLabelValues("formats", "error")) - errBefore; got != 1 {
		t.Errorf("error delta = %v", got)
	}
}

func TestRecordTautulliProxy_DeniedCollapsesCommand(t *testing.T) {
	before := testutil.ToFloat64(TautulliProxyRequests.WithLabelValues("denied", "denied"))
	RecordTautulliProxy("delete_all_history", "denied")
	RecordTautulliProxy("restart", "denied")
	if got := testutil.ToFloat64(TautulliProxyRequests.WithLabelValues("denied", "denied")) - before; got != 2 {
		t.Errorf("denied delta = %v, want 2", got)
	}
}

func TestCircuitBreakerMetrics(t *testing.T) {
	cbName := "test-breaker"

	CircuitBreakerState.WithLabelValues(cbName).Set(2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues(cbName)); got != 2 {
		t.Errorf("state = %v, want 2", got)
	}

	CircuitBreakerTransitions.WithLabelValues(cbName, "closed", "open").Inc()
	if got := testutil.ToFloat64(CircuitBreakerTransitions.WithLabelValues(cbName, "closed", "open")); got != 1 {
		t.Errorf("transitions = %v, want 1", got)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordAPIRequest("GET", "/api/concurrent", "200", time.Millisecond)
			RecordPosterRequest("disk")
			EventsPublished.WithLabelValues("poster_invalidated").Inc()
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/concurrent", "200")); got != 20 {
		t.Errorf("concurrent requests = %v, want 20", got)
	}
}

func TestMetricGathering(t *testing.T) {
	RecordAPIRequest("GET", "/test", "200", time.Millisecond)
	RecordUptime(time.Now().Add(-time.Minute))

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}
