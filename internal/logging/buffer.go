// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package logging

import (
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Entry sources.
const (
	SourceServer = "server"
	SourceClient = "client"
)

// Entry is one buffered log record.
type Entry struct {
	ID        string                 `json:"id"`
	Time      time.Time              `json:"time"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Component string                 `json:"component,omitempty"`
	Source    string                 `json:"source"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Query filters buffered entries. Zero values match everything.
type Query struct {
	// Level is the minimum level to return.
	Level     string
	Since     time.Time
	Component string
	Source    string
	// Limit keeps only the newest N matches.
	Limit int
}

// Buffer is a fixed-size ring of recent log entries.
// It implements io.Writer so it can sit behind zerolog as an extra sink.
type Buffer struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewBuffer creates a ring buffer holding up to capacity entries.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &Buffer{entries: make([]Entry, capacity)}
}

// Write parses one zerolog JSON line and appends it.
// Lines that are not valid JSON are kept verbatim as the message.
func (b *Buffer) Write(p []byte) (int, error) {
	n := len(p)
	line := strings.TrimSpace(string(p))
	if line == "" {
		return n, nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		b.Append(Entry{Time: time.Now().UTC(), Level: "info", Message: line, Source: SourceServer})
		return n, nil
	}

	e := Entry{Source: SourceServer}
	if v, ok := raw[zerolog.LevelFieldName].(string); ok {
		e.Level = v
		delete(raw, zerolog.LevelFieldName)
	}
	if v, ok := raw[zerolog.MessageFieldName].(string); ok {
		e.Message = v
		delete(raw, zerolog.MessageFieldName)
	}
	if v, ok := raw["component"].(string); ok {
		e.Component = v
		delete(raw, "component")
	}
	if v, ok := raw[zerolog.TimestampFieldName].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			e.Time = ts
		}
		delete(raw, zerolog.TimestampFieldName)
	}
	if len(raw) > 0 {
		e.Fields = raw
	}
	b.Append(e)
	return n, nil
}

// Append stores an entry, filling in ID, time, level and source when missing.
func (b *Buffer) Append(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	if e.Level == "" {
		e.Level = "info"
	}
	if e.Source == "" {
		e.Source = SourceServer
	}

	b.mu.Lock()
	b.entries[b.next] = e
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}
	b.mu.Unlock()
	return e
}

// Entries returns matching entries, oldest first.
func (b *Buffer) Entries(q Query) []Entry {
	minLevel := zerolog.TraceLevel
	if q.Level != "" {
		minLevel = parseLevel(q.Level)
	}

	b.mu.RLock()
	ordered := b.orderedLocked()
	b.mu.RUnlock()

	out := make([]Entry, 0, len(ordered))
	for i := range ordered {
		e := &ordered[i]
		if parseEntryLevel(e.Level) < minLevel {
			continue
		}
		if !q.Since.IsZero() && e.Time.Before(q.Since) {
			continue
		}
		if q.Component != "" && e.Component != q.Component {
			continue
		}
		if q.Source != "" && e.Source != q.Source {
			continue
		}
		out = append(out, *e)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[len(out)-q.Limit:]
	}
	return out
}

func (b *Buffer) orderedLocked() []Entry {
	if !b.full {
		out := make([]Entry, b.next)
		copy(out, b.entries[:b.next])
		return out
	}
	out := make([]Entry, 0, len(b.entries))
	out = append(out, b.entries[b.next:]...)
	out = append(out, b.entries[:b.next]...)
	return out
}

// Clear drops all buffered entries.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = make([]Entry, len(b.entries))
	b.next = 0
	b.full = false
}

// Len returns the number of buffered entries.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.full {
		return len(b.entries)
	}
	return b.next
}

// Capacity returns the maximum number of entries.
func (b *Buffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// parseEntryLevel is parseLevel without the info fallback for unknown strings,
// so that odd client levels are still shown with a trace filter.
func parseEntryLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		if strings.EqualFold(level, "warning") {
			return zerolog.WarnLevel
		}
		return zerolog.InfoLevel
	}
	return l
}

// ValidLevel reports whether level names a known log level.
func ValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
		return true
	}
	return false
}
