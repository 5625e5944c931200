// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package events

import "time"

// Event types.
const (
	TypePosterInvalidated = "poster_invalidated"
	TypeCacheCleared      = "cache_cleared"
	TypeDocumentUpdated   = "document_updated"
	TypeLogCleared        = "log_cleared"
)

// Cache scopes carried by cache_cleared in Key.
const (
	ScopePosters = "posters"
	ScopeAPI     = "api"
	ScopeAll     = "all"
)

// Event is one invalidation notice. Key is the poster rating key, the cache
// scope or the document kind depending on Type.
type Event struct {
	ID   string            `json:"id"`
	Type string            `json:"type"`
	Key  string            `json:"key,omitempty"`
	Time time.Time         `json:"time"`
	Data map[string]string `json:"data,omitempty"`
}

// PosterInvalidated announces that a poster left every cache layer.
func PosterInvalidated(ratingKey string) Event {
	return Event{Type: TypePosterInvalidated, Key: ratingKey}
}

// CacheCleared announces a bulk cache clear for scope.
func CacheCleared(scope string) Event {
	return Event{Type: TypeCacheCleared, Key: scope}
}

// DocumentUpdated announces a formats.json change for kind.
func DocumentUpdated(kind string) Event {
	return Event{Type: TypeDocumentUpdated, Key: kind}
}

// LogCleared announces that the log buffer was emptied.
func LogCleared() Event {
	return Event{Type: TypeLogCleared}
}

// ClearsAPICache reports whether cached Tautulli responses are stale after ev.
func (ev Event) ClearsAPICache() bool {
	switch ev.Type {
	case TypeCacheCleared:
		return ev.Key == ScopeAPI || ev.Key == ScopeAll
	case TypeDocumentUpdated:
		return ev.Key == "sections"
	default:
		return false
	}
}
