// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package api

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/plexboard/internal/events"
	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/metrics"
	"github.com/tomtom215/plexboard/internal/models"
)

// clientLogEntry is one record posted by the browser logger.
type clientLogEntry struct {
	Time      time.Time              `json:"time"`
	Level     string                 `json:"level" validate:"required,oneof=trace debug info warn warning error fatal"`
	Message   string                 `json:"message" validate:"required,max=4000"`
	Component string                 `json:"component,omitempty" validate:"max=100"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

type clientLogBatch struct {
	Entries []clientLogEntry `json:"entries" validate:"required,min=1,max=100,dive"`
}

type logsAccepted struct {
	Accepted int `json:"accepted"`
}

func (h *Handler) requireLogs(w http.ResponseWriter, r *http.Request) bool {
	if h.logs == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Log buffer is disabled", nil)
		return false
	}
	return true
}

// Logs serves GET /api/logs.
// Query: level (minimum), since (RFC 3339), component, source, limit (1-5000).
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	if !h.requireLogs(w, r) {
		return
	}
	q := r.URL.Query()
	query := logging.Query{
		Level:     q.Get("level"),
		Component: q.Get("component"),
		Source:    q.Get("source"),
	}
	if query.Level != "" && !logging.ValidLevel(query.Level) {
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeValidation,
			Message: "level must be one of trace, debug, info, warn, error",
			Details: map[string]interface{}{"field": "level", "value": sanitizeLogValue(query.Level)},
		})
		return
	}
	if raw := q.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondAPIError(w, http.StatusBadRequest, &models.APIError{
				Code:    ErrCodeValidation,
				Message: "since must be an RFC 3339 timestamp",
				Details: map[string]interface{}{"field": "since", "value": sanitizeLogValue(raw)},
			})
			return
		}
		query.Since = since
	}
	limit, ok := queryInt(w, r, "limit", 500, 1, 5000)
	if !ok {
		return
	}
	query.Limit = limit

	respondSuccess(w, h.logs.Entries(query), meta{})
}

// IngestLogs serves POST /api/logs for the frontend logger. Entries are
// stored with source "client" and never written back to the server log.
func (h *Handler) IngestLogs(w http.ResponseWriter, r *http.Request) {
	if !h.requireLogs(w, r) {
		return
	}
	var batch clientLogBatch
	if !decodeJSON(w, r, &batch) || !validateRequest(w, &batch) {
		return
	}
	for _, e := range batch.Entries {
		level := strings.ToLower(e.Level)
		if level == "warning" {
			level = "warn"
		}
		h.logs.Append(logging.Entry{
			Time:      e.Time.UTC(),
			Level:     level,
			Message:   e.Message,
			Component: e.Component,
			Source:    logging.SourceClient,
			Fields:    e.Fields,
		})
		metrics.ClientLogEntries.WithLabelValues(level).Inc()
	}
	respondSuccess(w, logsAccepted{Accepted: len(batch.Entries)}, meta{})
}

// ClearLogs serves DELETE /api/logs.
func (h *Handler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	if !h.requireLogs(w, r) {
		return
	}
	h.logs.Clear()
	logging.Ctx(r.Context()).Info().Msg("Log buffer cleared")
	h.publish(r.Context(), events.LogCleared())
	respondSuccess(w, map[string]bool{"cleared": true}, meta{})
}

// DownloadLogs serves GET /api/logs/download: the rotating log file when
// file logging is on, otherwise the buffer as newline-delimited JSON.
func (h *Handler) DownloadLogs(w http.ResponseWriter, r *http.Request) {
	if path := logging.LogFilePath(); path != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		http.ServeFile(w, r, path)
		return
	}
	if !h.requireLogs(w, r) {
		return
	}

	name := "plexboard-" + time.Now().UTC().Format("20060102-150405") + ".ndjson"
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	for _, e := range h.logs.Entries(logging.Query{}) {
		if err := enc.Encode(e); err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Log download interrupted")
			return
		}
	}
}
