// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package poster

import (
	"sync"
	"time"

	"github.com/tomtom215/plexboard/internal/metrics"
)

const memoryCacheLabel = "poster_memory"

// memoryNode is one element of the recency list.
type memoryNode struct {
	entry *Entry
	prev  *memoryNode
	next  *memoryNode
}

// Memory is a thread-safe LRU of poster entries bounded by entry count.
// Entries expire at their own ExpiresAt; expired entries are dropped lazily
// on access and by Sweep.
//
// The recency order is a doubly-linked list between two sentinels:
// head.next is the most recently used, tail.prev the least.
type Memory struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*memoryNode
	head     *memoryNode
	tail     *memoryNode

	hits      int64
	misses    int64
	evictions int64
}

// NewMemory creates an LRU holding at most capacity entries.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 500
	}
	m := &Memory{
		capacity: capacity,
		items:    make(map[string]*memoryNode, capacity),
		head:     &memoryNode{},
		tail:     &memoryNode{},
	}
	m.head.next = m.tail
	m.tail.prev = m.head
	return m
}

// Get returns the entry for key and marks it most recently used.
func (m *Memory) Get(key string) (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.items[key]
	if !ok {
		m.misses++
		return nil, false
	}
	if node.entry.Expired(time.Now()) {
		m.remove(node)
		m.misses++
		return nil, false
	}
	m.moveToFront(node)
	m.hits++
	return node.entry, true
}

// Peek returns the entry without touching recency or stats.
func (m *Memory) Peek(key string) (*Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	node, ok := m.items[key]
	if !ok || node.entry.Expired(time.Now()) {
		return nil, false
	}
	return node.entry, true
}

// Put adds or replaces the entry for e.Key, evicting the least recently
// used entries while over capacity.
func (m *Memory) Put(e *Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if node, ok := m.items[e.Key]; ok {
		node.entry = e
		m.moveToFront(node)
		return
	}

	node := &memoryNode{entry: e}
	m.addToFront(node)
	m.items[e.Key] = node

	for len(m.items) > m.capacity {
		oldest := m.tail.prev
		if oldest == m.head {
			break
		}
		m.remove(oldest)
		m.evictions++
		metrics.CacheEvictions.WithLabelValues(memoryCacheLabel).Inc()
	}
	metrics.CacheSize.WithLabelValues(memoryCacheLabel).Set(float64(len(m.items)))
}

// Delete removes key. It reports whether the key was present.
func (m *Memory) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	node, ok := m.items[key]
	if ok {
		m.remove(node)
		metrics.CacheSize.WithLabelValues(memoryCacheLabel).Set(float64(len(m.items)))
	}
	return ok
}

// Clear drops every entry and returns how many were held.
func (m *Memory) Clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.items)
	m.items = make(map[string]*memoryNode, m.capacity)
	m.head.next = m.tail
	m.tail.prev = m.head
	metrics.CacheSize.WithLabelValues(memoryCacheLabel).Set(0)
	return n
}

// Sweep removes expired entries, oldest first, and returns the count.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0
	for node := m.tail.prev; node != m.head; {
		prev := node.prev
		if node.entry.Expired(now) {
			m.remove(node)
			removed++
		}
		node = prev
	}
	if removed > 0 {
		metrics.CacheSize.WithLabelValues(memoryCacheLabel).Set(float64(len(m.items)))
	}
	return removed
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// MemoryStats is a snapshot of the memory layer counters.
type MemoryStats struct {
	Entries   int   `json:"entries"`
	Capacity  int   `json:"capacity"`
	Bytes     int64 `json:"bytes"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// Stats returns the current counters.
func (m *Memory) Stats() MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	var size int64
	for _, node := range m.items {
		size += int64(node.entry.Size)
	}
	return MemoryStats{
		Entries:   len(m.items),
		Capacity:  m.capacity,
		Bytes:     size,
		Hits:      m.hits,
		Misses:    m.misses,
		Evictions: m.evictions,
	}
}

// list helpers, called with mu held

func (m *Memory) addToFront(node *memoryNode) {
	node.prev = m.head
	node.next = m.head.next
	m.head.next.prev = node
	m.head.next = node
}

func (m *Memory) moveToFront(node *memoryNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
	m.addToFront(node)
}

func (m *Memory) remove(node *memoryNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
	delete(m.items, node.entry.Key)
}
