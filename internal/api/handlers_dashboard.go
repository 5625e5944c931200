// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/plexboard/internal/cache"
	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/models"
	tmodels "github.com/tomtom215/plexboard/internal/models/tautulli"
	"github.com/tomtom215/plexboard/internal/store"
)

// activityTTL caps how long live activity is cached.
const activityTTL = 10 * time.Second

// recentlyAddedParams are the get_recently_added filters.
type recentlyAddedParams struct {
	Count     int    `json:"count" validate:"min=1,max=100"`
	Start     int    `json:"start" validate:"min=0"`
	MediaType string `json:"media_type,omitempty" validate:"omitempty,oneof=movie show season episode artist album track photo clip live"`
	SectionID int    `json:"section_id,omitempty" validate:"min=0"`
}

// cachedCall serves name/params from the API cache or calls Tautulli.
// When the call fails, an expired entry still inside the stale window is
// served instead, flagged cached and stale.
func cachedCall[R any](ctx context.Context, h *Handler, name string, params interface{}, ttl time.Duration, call func(context.Context) (*R, error)) (*R, meta, error) {
	m := meta{start: time.Now()}
	key := cache.GenerateKey(name, params)

	if v, ok := h.cache.Get(key); ok {
		if res, ok := v.(*R); ok {
			m.cached = true
			return res, m, nil
		}
	}

	res, err := call(ctx)
	if err == nil && res != nil {
		if ttl > 0 && ttl < h.cache.TTL() {
			h.cache.SetWithTTL(key, res, ttl)
		} else {
			h.cache.Set(key, res)
		}
		return res, m, nil
	}

	if v, storedAt, ok := h.cache.GetStale(key); ok {
		if stale, ok := v.(*R); ok {
			logging.Ctx(ctx).Warn().Err(err).
				Str("endpoint", name).
				Time("stored_at", storedAt).
				Msg("Tautulli request failed, serving stale response")
			m.cached, m.stale = true, true
			return stale, m, nil
		}
	}
	return nil, m, err
}

// requireTautulli answers 503 when Tautulli is not configured.
func (h *Handler) requireTautulli(w http.ResponseWriter, r *http.Request) bool {
	if h.client == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Tautulli is not configured", nil)
		return false
	}
	return true
}

func respondTautulliError(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, http.StatusBadGateway, ErrCodeTautulli, "Tautulli request failed", err)
}

func (h *Handler) fetchRecentlyAdded(ctx context.Context, p recentlyAddedParams) (*tmodels.TautulliRecentlyAdded, meta, error) {
	return cachedCall(ctx, h, "recently_added", p, 0, func(ctx context.Context) (*tmodels.TautulliRecentlyAdded, error) {
		return h.client.GetRecentlyAdded(ctx, p.Count, p.Start, p.MediaType, p.SectionID)
	})
}

func (h *Handler) fetchActivity(ctx context.Context) (*tmodels.TautulliActivity, meta, error) {
	return cachedCall(ctx, h, "activity", nil, activityTTL, h.client.GetActivity)
}

func (h *Handler) fetchUsers(ctx context.Context) (*tmodels.TautulliUsers, meta, error) {
	return cachedCall(ctx, h, "users", nil, 0, h.client.GetUsers)
}

func (h *Handler) fetchLibraries(ctx context.Context) (*tmodels.TautulliLibraries, meta, error) {
	return cachedCall(ctx, h, "libraries", nil, 0, h.client.GetLibraries)
}

// RecentlyAdded serves /api/dashboard/recently-added.
// Query: count (1-100, default 25), start, media_type, section_id.
func (h *Handler) RecentlyAdded(w http.ResponseWriter, r *http.Request) {
	p, ok := parseRecentlyAdded(w, r)
	if !ok || !h.requireTautulli(w, r) {
		return
	}
	res, m, err := h.fetchRecentlyAdded(r.Context(), p)
	if err != nil {
		respondTautulliError(w, r, err)
		return
	}
	respondSuccess(w, h.views(categoryRecentlyAdded).recentlyAdded(res), m)
}

func parseRecentlyAdded(w http.ResponseWriter, r *http.Request) (recentlyAddedParams, bool) {
	var p recentlyAddedParams
	var ok bool
	if p.Count, ok = queryInt(w, r, "count", 25, 1, 100); !ok {
		return p, false
	}
	if p.Start, ok = queryInt(w, r, "start", 0, 0, 1_000_000); !ok {
		return p, false
	}
	if p.SectionID, ok = queryInt(w, r, "section_id", 0, 0, 1_000_000); !ok {
		return p, false
	}
	p.MediaType = r.URL.Query().Get("media_type")
	return p, validateRequest(w, &p)
}

// Activity serves /api/dashboard/activity.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	if !h.requireTautulli(w, r) {
		return
	}
	res, m, err := h.fetchActivity(r.Context())
	if err != nil {
		respondTautulliError(w, r, err)
		return
	}
	respondSuccess(w, h.views(categoryActivity).activity(res), m)
}

// Users serves /api/dashboard/users.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	if !h.requireTautulli(w, r) {
		return
	}
	res, m, err := h.fetchUsers(r.Context())
	if err != nil {
		respondTautulliError(w, r, err)
		return
	}
	respondSuccess(w, usersView(res), m)
}

// Libraries serves /api/dashboard/libraries.
func (h *Handler) Libraries(w http.ResponseWriter, r *http.Request) {
	if !h.requireTautulli(w, r) {
		return
	}
	res, m, err := h.fetchLibraries(r.Context())
	if err != nil {
		respondTautulliError(w, r, err)
		return
	}
	respondSuccess(w, librariesView(res), m)
}

// SectionItems renders one configured section: the section's Tautulli
// query, media resolution, its format templates and poster URLs.
func (h *Handler) SectionItems(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionID(w, r)
	if !ok {
		return
	}
	sec, err := h.store.Section(id)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	// Disabled sections are hidden from the dashboard, so they have no items.
	if !sec.Enabled {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Section is disabled", nil)
		return
	}
	if !h.requireTautulli(w, r) {
		return
	}

	out := models.SectionItems{SectionID: sec.ID, Type: sec.Type, Title: sec.Title}
	var m meta
	vb := h.views(sec.Category())

	switch sec.Type {
	case store.SectionRecentlyAdded:
		p := recentlyAddedParams{Count: sec.Count, MediaType: sec.MediaType}
		if p.Count <= 0 {
			p.Count = 20
		}
		if sec.LibrarySectionID != "" {
			p.SectionID, _ = strconv.Atoi(sec.LibrarySectionID)
		}
		var res *tmodels.TautulliRecentlyAdded
		if res, m, err = h.fetchRecentlyAdded(r.Context(), p); err == nil {
			out.Items = vb.recentlyAdded(res).Items
		}
	case store.SectionActivity:
		var res *tmodels.TautulliActivity
		if res, m, err = h.fetchActivity(r.Context()); err == nil {
			out.Items = vb.activity(res).Sessions
		}
	case store.SectionUsers:
		var res *tmodels.TautulliUsers
		if res, m, err = h.fetchUsers(r.Context()); err == nil {
			out.Items = usersView(res)
		}
	case store.SectionLibraries:
		var res *tmodels.TautulliLibraries
		if res, m, err = h.fetchLibraries(r.Context()); err == nil {
			out.Items = librariesView(res)
		}
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Unsupported section type", nil)
		return
	}
	if err != nil {
		respondTautulliError(w, r, err)
		return
	}
	respondSuccess(w, out, m)
}
