// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package api

import (
	"net/http"

	"github.com/tomtom215/plexboard/internal/events"
	"github.com/tomtom215/plexboard/internal/logging"
)

// ClearCache serves POST /api/clear-cache: posters and API responses.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	removed := h.cache.Clear()
	if h.posters != nil {
		n, err := h.posters.Clear(r.Context())
		if err != nil {
			respondPosterError(w, r, err)
			return
		}
		removed += n
	}
	logging.Ctx(r.Context()).Info().Int("removed", removed).Msg("All caches cleared")
	h.publish(r.Context(), events.CacheCleared(events.ScopeAll))
	respondSuccess(w, clearResult{Scope: events.ScopeAll, Removed: removed}, meta{})
}

// ClearPosterCache serves POST /api/clear-cache/posters.
func (h *Handler) ClearPosterCache(w http.ResponseWriter, r *http.Request) {
	if !h.requirePosters(w, r) {
		return
	}
	removed, err := h.posters.Clear(r.Context())
	if err != nil {
		respondPosterError(w, r, err)
		return
	}
	respondSuccess(w, clearResult{Scope: events.ScopePosters, Removed: removed}, meta{})
}

// ClearAPICache serves POST /api/clear-cache/api.
func (h *Handler) ClearAPICache(w http.ResponseWriter, r *http.Request) {
	removed := h.cache.Clear()
	logging.Ctx(r.Context()).Info().Int("removed", removed).Msg("API cache cleared")
	h.publish(r.Context(), events.CacheCleared(events.ScopeAPI))
	respondSuccess(w, clearResult{Scope: events.ScopeAPI, Removed: removed}, meta{})
}
