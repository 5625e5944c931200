// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/plexboard/internal/middleware"
	"github.com/tomtom215/plexboard/internal/store"
)

// NewRouter builds the HTTP routes.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(h.cfg.Security.CORSOrigins)) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(&h.cfg.Security))

		// ========================
		// Health
		// ========================
		r.Route("/health", func(r chi.Router) {
			r.Get("/", h.Health)
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		// ========================
		// Stored documents
		// ========================
		for _, doc := range []struct{ path, kind string }{
			{"/config", store.KindConfig},
			{"/formats", store.KindFormats},
			{"/sections", store.KindSections},
		} {
			r.Get(doc.path, h.GetDocument(doc.kind))
			r.Put(doc.path, h.PutDocument(doc.kind))
			r.Post(doc.path, h.PutDocument(doc.kind))
			r.Patch(doc.path, h.PatchDocument(doc.kind))
		}
		r.Route("/sections/{id}", func(r chi.Router) {
			r.Get("/", h.GetSection)
			r.Delete("/", h.DeleteSection)
			r.Get("/items", h.SectionItems)
		})

		// ========================
		// Dashboard (typed Tautulli views)
		// ========================
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/recently-added", h.RecentlyAdded)
			r.Get("/activity", h.Activity)
			r.Get("/users", h.Users)
			r.Get("/libraries", h.Libraries)
		})

		r.Get("/tautulli/{cmd}", h.TautulliProxy)

		// ========================
		// Posters
		// ========================
		r.Route("/posters", func(r chi.Router) {
			r.Get("/", h.PosterStats)
			r.Post("/prefetch", h.PosterPrefetch)
			r.Get("/{ratingKey}", h.Poster)
			r.Delete("/{ratingKey}", h.PosterDelete)
			r.Get("/{ratingKey}/info", h.PosterInfo)
			r.Post("/{ratingKey}/refresh", h.PosterRefresh)
		})

		// ========================
		// Logs
		// ========================
		r.Route("/logs", func(r chi.Router) {
			r.Get("/", h.Logs)
			r.Post("/", h.IngestLogs)
			r.Delete("/", h.ClearLogs)
			r.Get("/download", h.DownloadLogs)
		})

		// ========================
		// Cache maintenance
		// ========================
		r.Route("/clear-cache", func(r chi.Router) {
			r.Post("/", h.ClearCache)
			r.Post("/posters", h.ClearPosterCache)
			r.Post("/api", h.ClearAPICache)
			r.Post("/posters/{ratingKey}", h.PosterDelete)
		})

		r.Get("/ws", h.WebSocket)
	})

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
}
