// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/plexboard/internal/models"
	"github.com/tomtom215/plexboard/internal/store"
	"github.com/tomtom215/plexboard/internal/validation"
)

// GetDocument returns one formats.json field. kind is config, formats or
// sections.
func (h *Handler) GetDocument(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := h.store.Get(kind)
		if err != nil {
			h.respondStoreError(w, r, err)
			return
		}
		respondSuccess(w, raw, meta{})
	}
}

// PutDocument replaces one formats.json field with the request body.
func (h *Handler) PutDocument(kind string) http.HandlerFunc {
	return h.writeDocument(kind, false)
}

// PatchDocument merges the request body into one formats.json field.
func (h *Handler) PatchDocument(kind string) http.HandlerFunc {
	return h.writeDocument(kind, true)
}

func (h *Handler) writeDocument(kind string, patch bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		body, err := readBody(w, r)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
			return
		}
		if !json.Valid(body) {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body", nil)
			return
		}

		if patch {
			err = h.store.Patch(r.Context(), kind, body)
		} else {
			err = h.store.Put(r.Context(), kind, body)
		}
		if err != nil {
			h.respondStoreError(w, r, err)
			return
		}

		raw, err := h.store.Get(kind)
		if err != nil {
			h.respondStoreError(w, r, err)
			return
		}
		respondSuccess(w, raw, meta{start: start})
	}
}

// GetSection returns one configured section.
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionID(w, r)
	if !ok {
		return
	}
	sec, err := h.store.Section(id)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, sec, meta{})
}

// DeleteSection removes one configured section.
func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := sectionID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteSection(r.Context(), id); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, map[string]string{"deleted": id}, meta{})
}

func sectionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if verr := validation.ValidateVar("id", id, "required,sectionid"); verr != nil {
		respondValidation(w, verr)
		return "", false
	}
	return id, true
}

func (h *Handler) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeValidation,
			Message: "Invalid " + verr.Kind + " document",
			Details: map[string]interface{}{"problems": verr.Problems},
		})
	case errors.Is(err, store.ErrSectionNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Section not found", nil)
	case errors.Is(err, store.ErrUnknownDocument):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Unknown document", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to update formats.json", err)
	}
}
