// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package poster

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/tomtom215/plexboard/internal/models"
)

// Source names, also used as metric labels and the X-Poster-Source header.
const (
	SourceTMDB        = "tmdb"
	SourceTautulli    = "tautulli"
	SourcePlex        = "plex"
	SourcePlaceholder = "placeholder"
)

// Layer names.
const (
	LayerMemory   = "memory"
	LayerDisk     = "disk"
	LayerUpstream = "upstream"
)

// Entry is one cached poster.
type Entry struct {
	Key         string    `json:"key"`
	Source      string    `json:"source"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"-"`
	Size        int       `json:"size"`
	ETag        string    `json:"etag"`
	FetchedAt   time.Time `json:"fetched_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func newEntry(key, source, contentType string, data []byte, ttl time.Duration) *Entry {
	now := time.Now().UTC()
	return &Entry{
		Key:         key,
		Source:      source,
		ContentType: contentType,
		Data:        data,
		Size:        len(data),
		ETag:        etagFor(data),
		FetchedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

// Expired reports whether the entry is past its expiry.
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// IsPlaceholder reports whether the entry is the generated fallback image.
func (e *Entry) IsPlaceholder() bool {
	return e.Source == SourcePlaceholder
}

// MaxAge is the remaining lifetime, for Cache-Control.
func (e *Entry) MaxAge(now time.Time) time.Duration {
	if e.ExpiresAt.IsZero() {
		return 0
	}
	if d := e.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Info returns the entry metadata as served by /api/posters/{key}/info.
func (e *Entry) Info(layer string) models.PosterInfo {
	return models.PosterInfo{
		Key:         e.Key,
		Source:      e.Source,
		ContentType: e.ContentType,
		Size:        e.Size,
		ETag:        e.ETag,
		FetchedAt:   e.FetchedAt,
		ExpiresAt:   e.ExpiresAt,
		Layer:       layer,
	}
}

// etagFor is a strong validator over the image bytes.
func etagFor(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:12]) + `"`
}
