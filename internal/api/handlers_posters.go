// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/poster"
)

// maxPrefetchItems bounds one prefetch request.
const maxPrefetchItems = 100

// Poster response headers.
const (
	HeaderPosterSource = "X-Poster-Source"
	HeaderPosterLayer  = "X-Poster-Layer"
)

type prefetchRequest struct {
	Items []poster.Request `json:"items" validate:"required,min=1,max=100,dive"`
}

type invalidateResult struct {
	Key   string `json:"key"`
	Found bool   `json:"found"`
}

type clearResult struct {
	Scope   string `json:"scope"`
	Removed int    `json:"removed"`
}

func (h *Handler) requirePosters(w http.ResponseWriter, r *http.Request) bool {
	if h.posters == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Poster cache is not available", nil)
		return false
	}
	return true
}

// posterRequest builds a poster request from the {ratingKey} URL parameter
// and the thumb/title/media_type/refresh query hints.
func posterRequest(w http.ResponseWriter, r *http.Request) (poster.Request, bool) {
	q := r.URL.Query()
	req := poster.Request{
		RatingKey: chi.URLParam(r, "ratingKey"),
		Thumb:     q.Get("thumb"),
		Title:     q.Get("title"),
		MediaType: q.Get("media_type"),
	}
	if raw := q.Get("refresh"); raw != "" {
		refresh, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "refresh must be a boolean", nil)
			return req, false
		}
		req.Refresh = refresh
	}
	return req, validateRequest(w, &req)
}

// respondPosterError maps poster service errors onto HTTP statuses.
func respondPosterError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, poster.ErrInvalidKey):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Rating key must be 1-20 digits", nil)
	case errors.Is(err, poster.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Poster is not cached", nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Poster request canceled", err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Poster cache error", err)
	}
}

// PosterStats serves GET /api/posters.
func (h *Handler) PosterStats(w http.ResponseWriter, r *http.Request) {
	if !h.requirePosters(w, r) {
		return
	}
	respondSuccess(w, h.posters.Stats(), meta{})
}

// PosterPrefetch serves POST /api/posters/prefetch.
func (h *Handler) PosterPrefetch(w http.ResponseWriter, r *http.Request) {
	if !h.requirePosters(w, r) {
		return
	}
	var body prefetchRequest
	if !decodeJSON(w, r, &body) || !validateRequest(w, &body) {
		return
	}
	m := meta{start: time.Now()}
	results := h.posters.Prefetch(r.Context(), body.Items)
	respondSuccess(w, results, m)
}

// Poster serves GET /api/posters/{ratingKey}: the image bytes with caching
// validators. A matching If-None-Match answers 304.
func (h *Handler) Poster(w http.ResponseWriter, r *http.Request) {
	if !h.requirePosters(w, r) {
		return
	}
	req, ok := posterRequest(w, r)
	if !ok {
		return
	}
	e, layer, err := h.posters.Get(r.Context(), req)
	if err != nil {
		respondPosterError(w, r, err)
		return
	}

	hdr := w.Header()
	hdr.Set("ETag", e.ETag)
	hdr.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(e.MaxAge(time.Now()).Seconds())))
	hdr.Set(HeaderPosterSource, e.Source)
	hdr.Set(HeaderPosterLayer, layer)

	if etagMatch(r.Header.Get("If-None-Match"), e.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	hdr.Set("Content-Type", e.ContentType)
	hdr.Set("Content-Length", strconv.Itoa(len(e.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(e.Data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Str("key", e.Key).Msg("Failed to write poster")
	}
}

// etagMatch implements If-None-Match comparison (weak, per RFC 9110).
func etagMatch(header, etag string) bool {
	if header == "" || etag == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == strings.TrimPrefix(etag, "W/") {
			return true
		}
	}
	return false
}

// PosterInfo serves GET /api/posters/{ratingKey}/info.
func (h *Handler) PosterInfo(w http.ResponseWriter, r *http.Request) {
	if !h.requirePosters(w, r) {
		return
	}
	info, err := h.posters.Info(r.Context(), chi.URLParam(r, "ratingKey"))
	if err != nil {
		respondPosterError(w, r, err)
		return
	}
	respondSuccess(w, info, meta{})
}

// PosterRefresh serves POST /api/posters/{ratingKey}/refresh.
func (h *Handler) PosterRefresh(w http.ResponseWriter, r *http.Request) {
	if !h.requirePosters(w, r) {
		return
	}
	req, ok := posterRequest(w, r)
	if !ok {
		return
	}
	m := meta{start: time.Now()}
	e, err := h.posters.Refresh(r.Context(), req)
	if err != nil {
		respondPosterError(w, r, err)
		return
	}
	respondSuccess(w, e.Info(poster.LayerUpstream), m)
}

// PosterDelete serves DELETE /api/posters/{ratingKey} and
// POST /api/clear-cache/posters/{ratingKey}.
func (h *Handler) PosterDelete(w http.ResponseWriter, r *http.Request) {
	if !h.requirePosters(w, r) {
		return
	}
	key := chi.URLParam(r, "ratingKey")
	found, err := h.posters.Invalidate(r.Context(), key)
	if err != nil {
		respondPosterError(w, r, err)
		return
	}
	respondSuccess(w, invalidateResult{Key: key, Found: found}, meta{})
}
