// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

// Package validation validates request payloads and stored documents with
// go-playground/validator v10.
//
// A single validator instance is shared process-wide. Field names in errors
// follow the json tag, so a failure on Section.LibrarySectionID is reported
// as library_section_id, matching what the client sent.
//
// Custom tags:
//
//	ratingkey   Plex rating key: 1-20 digits
//	sectionid   dashboard section id: [a-z0-9_-], 1-64 chars
//	plexpath    library-relative Plex path (/library/...), no scheme or ".."
//
// Example:
//
//	type PrefetchItem struct {
//	    RatingKey string `json:"rating_key" validate:"required,ratingkey"`
//	    Thumb     string `json:"thumb" validate:"omitempty,plexpath"`
//	}
//
//	if verr := validation.ValidateStruct(&item); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	}
package validation
