// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/models"
	"github.com/tomtom215/plexboard/internal/validation"
)

// Error codes for API responses
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeTautulli           = "TAUTULLI_ERROR"
	ErrCodeUpstream           = "UPSTREAM_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeForbidden          = "FORBIDDEN"
)

// maxBodyBytes caps JSON request bodies. formats.json documents are small.
const maxBodyBytes = 1 << 20

// meta carries the optional response metadata flags.
type meta struct {
	start  time.Time
	cached bool
	stale  bool
}

// respondJSON writes the envelope with status.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess writes a 200 success envelope.
func respondSuccess(w http.ResponseWriter, data interface{}, m meta) {
	md := models.Metadata{
		Timestamp: time.Now().UTC(),
		Cached:    m.cached,
		Stale:     m.stale,
	}
	if !m.start.IsZero() {
		md.QueryTimeMS = time.Since(m.start).Milliseconds()
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: md,
	})
}

// respondError writes an error envelope. A non-nil err is logged with the
// request ID but never sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= 500 && status != http.StatusBadGateway && status != http.StatusServiceUnavailable {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Str("code", code).Str("path", r.URL.Path).Err(err).Msg(sanitizeLogValue(message))
	}
	respondAPIError(w, status, &models.APIError{Code: code, Message: message})
}

func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    apiErr,
	})
}

// respondValidation answers 400 VALIDATION_ERROR with field details.
func respondValidation(w http.ResponseWriter, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	respondAPIError(w, http.StatusBadRequest, &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	})
}

// validateRequest runs the struct validator and answers 400 on failure.
func validateRequest(w http.ResponseWriter, v interface{}) bool {
	if verr := validation.ValidateStruct(v); verr != nil {
		respondValidation(w, verr)
		return false
	}
	return true
}

var errEmptyBody = errors.New("request body is empty")

// readBody reads at most maxBodyBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errEmptyBody
	}
	return data, nil
}

// decodeJSON reads and decodes the request body into v. It answers 400 and
// returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	data, err := readBody(w, r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Invalid JSON body", nil)
		return false
	}
	return true
}

// queryInt parses an integer query parameter. Missing values take def;
// malformed values or values outside [min, max] answer 400.
func queryInt(w http.ResponseWriter, r *http.Request, key string, def, min, max int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeValidation,
			Message: fmt.Sprintf("%s must be an integer from %d to %d", key, min, max),
			Details: map[string]interface{}{"field": key, "value": raw},
		})
		return 0, false
	}
	return n, true
}

// sanitizeLogValue escapes control characters so request data cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
