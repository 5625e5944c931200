// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/plexboard/internal/metrics"
)

// DefaultStaleFor is how long an expired entry stays available to GetStale.
const DefaultStaleFor = 10 * time.Minute

// Entry represents a cached item with expiration
type Entry struct {
	Data      interface{}
	StoredAt  time.Time
	ExpiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache for typed upstream responses.
//
// Expired entries are not served by Get but are kept for StaleFor so that
// GetStale can answer while the upstream is down. A background loop drops
// entries past their stale window until Close is called.
type Cache struct {
	name     string
	mu       sync.RWMutex
	entries  map[string]Entry
	ttl      time.Duration
	staleFor time.Duration

	statsMu sync.Mutex
	stats   Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// Stats is a snapshot of the cache counters.
type Stats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	StaleHits   int64     `json:"stale_hits"`
	Evictions   int64     `json:"evictions"`
	TotalKeys   int64     `json:"total_keys"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// New creates a cache named name (the cache_type metric label) whose
// entries live for ttl. It starts a cleanup goroutine that runs every
// minute until Close.
//
// Example:
//
//	c := cache.New("api", time.Minute)
//	defer c.Close()
//	c.Set(cache.GenerateKey("activity", nil), activity)
func New(name string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	c := &Cache{
		name:     name,
		entries:  make(map[string]Entry),
		ttl:      ttl,
		staleFor: DefaultStaleFor,
		stats:    Stats{LastCleanup: time.Now()},
		stop:     make(chan struct{}),
	}
	go c.cleanupLoop(time.Minute)
	return c
}

// SetStaleFor changes how long expired entries stay available to GetStale.
func (c *Cache) SetStaleFor(d time.Duration) {
	c.mu.Lock()
	c.staleFor = d
	c.mu.Unlock()
}

// TTL returns the default time-to-live.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get retrieves a value that has not expired.
//
// Example:
//
//	if data, ok := c.Get(key); ok {
//	    return data.(*models.ActivityView), nil
//	}
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || time.Now().After(entry.ExpiresAt) {
		c.recordMiss()
		return nil, false
	}

	c.recordHit()
	return entry.Data, true
}

// GetStale returns a value even if it expired, as long as it is within the
// stale window. It also returns when the value was stored.
func (c *Cache) GetStale(key string) (interface{}, time.Time, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	staleFor := c.staleFor
	c.mu.RUnlock()

	if !exists || time.Now().After(entry.ExpiresAt.Add(staleFor)) {
		return nil, time.Time{}, false
	}

	c.statsMu.Lock()
	c.stats.StaleHits++
	c.statsMu.Unlock()
	return entry.Data, entry.StoredAt, true
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value that expires after ttl.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	now := time.Now()
	c.mu.Lock()
	c.entries[key] = Entry{Data: value, StoredAt: now, ExpiresAt: now.Add(ttl)}
	size := len(c.entries)
	c.mu.Unlock()

	c.setSize(size)
}

// Delete removes a value from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	size := len(c.entries)
	c.mu.Unlock()

	if existed {
		c.recordEvictions(1)
	}
	c.setSize(size)
}

// Clear removes every entry, stale ones included, and returns the count.
func (c *Cache) Clear() int {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.recordEvictions(int64(n))
	c.setSize(0)
	return n
}

// Len returns the number of held entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetStats returns a snapshot of the counters.
func (c *Cache) GetStats() Stats {
	keys := int64(c.Len())

	c.statsMu.Lock()
	st := c.stats
	c.statsMu.Unlock()

	st.TotalKeys = keys
	return st
}

// HitRate returns the hit rate as a percentage.
func (c *Cache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// Close stops the cleanup loop.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup drops entries whose stale window has passed.
func (c *Cache) cleanup() int {
	now := time.Now()
	c.mu.Lock()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt.Add(c.staleFor)) {
			delete(c.entries, key)
			removed++
		}
	}
	size := len(c.entries)
	c.mu.Unlock()

	c.statsMu.Lock()
	c.stats.LastCleanup = now
	c.statsMu.Unlock()
	c.recordEvictions(int64(removed))
	c.setSize(size)
	return removed
}

func (c *Cache) recordHit() {
	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()
	metrics.CacheHits.WithLabelValues(c.name).Inc()
}

func (c *Cache) recordMiss() {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
	metrics.CacheMisses.WithLabelValues(c.name).Inc()
}

func (c *Cache) recordEvictions(n int64) {
	if n == 0 {
		return
	}
	c.statsMu.Lock()
	c.stats.Evictions += n
	c.statsMu.Unlock()
	metrics.CacheEvictions.WithLabelValues(c.name).Add(float64(n))
}

func (c *Cache) setSize(n int) {
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(n))
}

// GenerateKey builds a compact key from a method name and its parameters.
// Parameters are serialized to JSON and hashed, so maps with the same
// content produce the same key.
//
// Example:
//
//	key := cache.GenerateKey("recently_added", map[string]interface{}{"count": 25, "section_id": 1})
func GenerateKey(method string, params interface{}) string {
	if params == nil {
		return method
	}
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
