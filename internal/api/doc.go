// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package api provides the HTTP REST API layer for Plexboard.

It serves the dashboard frontend: stored documents, typed Tautulli views,
the allow-listed Tautulli passthrough, posters, logs and live updates.

Endpoint Groups:

 1. Health (/api/health, /live, /ready)

 2. Stored documents (/api/config, /api/formats, /api/sections):
    GET returns the document, PUT (or POST) replaces it, PATCH merges it.
    /api/sections/{id}/items renders one section with its formats and
    poster URLs.

 3. Dashboard (/api/dashboard/recently-added, /activity, /users, /libraries):
    typed Tautulli responses cached in the API cache. When Tautulli fails,
    a recently expired response is served with metadata.stale=true.

 4. Tautulli passthrough (/api/tautulli/{cmd}): commands matching
    tautulli.allowed_commands are forwarded with the API key injected.

 5. Posters (/api/posters/...): image bytes with ETag/If-None-Match,
    metadata, refresh, invalidate, prefetch and stats.

 6. Logs (/api/logs, /api/logs/download) and cache maintenance
    (/api/clear-cache/...).

 7. WebSocket (/api/ws) and Prometheus (/metrics).

Response Format:

Every JSON endpoint except the passthrough answers with models.APIResponse:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "...", "query_time_ms": 12, "cached": true}
	}

Errors carry {"status": "error", "error": {"code": "...", "message": "..."}}.

Usage Example:

	h := api.NewHandler(api.Deps{
	    Config:   cfg,
	    Store:    st,
	    Posters:  posters,
	    Tautulli: tautulliClient,
	    Hub:      hub,
	})
	srv := &http.Server{Addr: ":3001", Handler: api.NewRouter(h)}
*/
package api
