// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package cache

import (
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/plexboard/internal/events"
	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/metrics"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

func newTestCache(t *testing.T, name string, ttl time.Duration) *Cache {
	t.Helper()
	c := New(name, ttl)
	t.Cleanup(c.Close)
	return c
}

func TestCacheBasicOperations(t *testing.T) {
	c := newTestCache(t, "test_basic", time.Minute)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists || value != "value1" {
		t.Errorf("Get(key1) = %v, %v", value, exists)
	}

	if _, exists = c.Get("key2"); exists {
		t.Error("Expected key2 to not exist")
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.TotalKeys != 1 {
		t.Errorf("GetStats() = %+v", stats)
	}
	if c.HitRate() != 50 {
		t.Errorf("HitRate() = %v, want 50", c.HitRate())
	}
}

func TestCacheStatsSnapshot(t *testing.T) {
	c := newTestCache(t, "test_stats_snapshot", time.Minute)
	c.Set("k", "v")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Get("k")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = c.GetStats()
			}
		}()
	}
	wg.Wait()

	snap := c.GetStats()
	if snap.Hits != 400 || snap.TotalKeys != 1 {
		t.Fatalf("GetStats() = %+v, want 400 hits over 1 key", snap)
	}
	c.Get("k")
	if snap.Hits != 400 {
		t.Error("snapshot changed after a later hit")
	}
	if got := c.GetStats().Hits; got != 401 {
		t.Errorf("Hits = %d, want 401", got)
	}
}

func TestCacheExpirationAndStale(t *testing.T) {
	c := newTestCache(t, "test_stale", time.Minute)

	c.SetWithTTL("key1", "value1", 50*time.Millisecond)
	if _, ok := c.Get("key1"); !ok {
		t.Fatal("Expected key1 to exist immediately after set")
	}

	time.Sleep(80 * time.Millisecond)

	if _, ok := c.Get("key1"); ok {
		t.Error("Expected key1 to be expired")
	}
	v, storedAt, ok := c.GetStale("key1")
	if !ok || v != "value1" || storedAt.IsZero() {
		t.Errorf("GetStale() = %v, %v, %v", v, storedAt, ok)
	}

	c.SetStaleFor(0)
	if _, _, ok := c.GetStale("key1"); ok {
		t.Error("entry past its stale window was served")
	}
	if n := c.cleanup(); n != 1 || c.Len() != 0 {
		t.Errorf("cleanup() = %d, len %d", n, c.Len())
	}
}

func TestCacheDeleteClear(t *testing.T) {
	c := newTestCache(t, "test_clear", time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Delete("a")
	c.Delete("missing")

	if n := c.Clear(); n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
	if _, _, ok := c.GetStale("b"); ok {
		t.Error("Clear must drop stale copies too")
	}
	if got := c.GetStats().Evictions; got != 3 {
		t.Errorf("Evictions = %d, want 3", got)
	}
	if got := testutil.ToFloat64(metrics.CacheSize.WithLabelValues("test_clear")); got != 0 {
		t.Errorf("cache_entries gauge = %v", got)
	}
}

func TestCacheHandleEvent(t *testing.T) {
	tests := []struct {
		name  string
		event events.Event
		clear bool
	}{
		{"api scope", events.CacheCleared(events.ScopeAPI), true},
		{"all scope", events.CacheCleared(events.ScopeAll), true},
		{"posters scope", events.CacheCleared(events.ScopePosters), false},
		{"sections updated", events.DocumentUpdated("sections"), true},
		{"formats updated", events.DocumentUpdated("formats"), false},
		{"poster invalidated", events.PosterInvalidated("1"), false},
		{"log cleared", events.LogCleared(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCache(t, "test_events", time.Minute)
			c.Set("k", "v")
			c.HandleEvent(tt.event)
			if cleared := c.Len() == 0; cleared != tt.clear {
				t.Errorf("cleared = %v, want %v", cleared, tt.clear)
			}
		})
	}
}

func TestGenerateKey(t *testing.T) {
	a := GenerateKey("recent", map[string]interface{}{"count": 25, "section": 1})
	b := GenerateKey("recent", map[string]interface{}{"section": 1, "count": 25})
	c := GenerateKey("recent", map[string]interface{}{"count": 26, "section": 1})

	if a != b {
		t.Errorf("key depends on map order: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different params produced the same key")
	}
	if GenerateKey("activity", nil) != "activity" {
		t.Errorf("nil params key = %s", GenerateKey("activity", nil))
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := newTestCache(t, "test_concurrent", time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("key-%d-%d", g, i%10)
				c.Set(key, i)
				c.Get(key)
				c.GetStale(key)
				if i%25 == 0 {
					c.Clear()
				}
			}
		}(g)
	}
	wg.Wait()
}
