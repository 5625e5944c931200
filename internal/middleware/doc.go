// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package middleware provides the HTTP middleware of the API router.

All middleware has the chi signature func(http.Handler) http.Handler:

  - RequestID: X-Request-ID propagation into the logging context
  - RequestLogger: one structured zerolog line per request
  - SecurityHeaders: nosniff, frame denial, referrer policy, HSTS behind TLS
  - CORS: go-chi/cors for the browser UI
  - RateLimit: go-chi/httprate per client IP with a JSON 429 body
  - PrometheusMetrics: request count, duration and in-flight gauge

The router applies them in this order:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(cfg.Security.CORSOrigins))
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
