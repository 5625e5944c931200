// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/metrics"
	"github.com/tomtom215/plexboard/internal/tautulli"
	"github.com/tomtom215/plexboard/internal/upstream"
)

// TautulliProxy forwards GET /api/tautulli/{cmd} to Tautulli with the API key
// injected. The upstream JSON body is written verbatim, including
// Tautulli-level {"result":"error"} answers.
func (h *Handler) TautulliProxy(w http.ResponseWriter, r *http.Request) {
	cmd := chi.URLParam(r, "cmd")
	if !tautulli.CommandAllowed(cmd, h.cfg.Tautulli.AllowedCommands) {
		metrics.RecordTautulliProxy(cmd, "denied")
		respondError(w, r, http.StatusForbidden, ErrCodeForbidden, "Tautulli command is not allowed", nil)
		logging.Ctx(r.Context()).Warn().Str("cmd", sanitizeLogValue(cmd)).Msg("Rejected Tautulli passthrough command")
		return
	}
	if !h.requireTautulli(w, r) {
		return
	}

	raw, err := h.client.Call(r.Context(), cmd, r.URL.Query())
	if err != nil {
		if upstream.IsUnavailable(err) {
			metrics.RecordTautulliProxy(cmd, "unavailable")
			respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Tautulli is unavailable", err)
			return
		}
		metrics.RecordTautulliProxy(cmd, "error")
		respondTautulliError(w, r, err)
		return
	}
	metrics.RecordTautulliProxy(cmd, "success")

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write Tautulli passthrough body")
	}
}
