// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"

	"github.com/tomtom215/plexboard/internal/config"
	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/metrics"
	"github.com/tomtom215/plexboard/internal/models"
)

// SecurityHeaders sets the headers every API response carries.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

// CORS allows the dashboard UI, served from another origin, to call the API.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "If-None-Match", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader, "ETag", "X-Poster-Source", "X-Poster-Layer"},
		AllowCredentials: false,
		MaxAge:           86400,
	})
}

// RateLimit limits requests per client IP with httprate. Rejections are
// answered with the JSON error envelope.
func RateLimit(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled || cfg.RateLimitReqs <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(
		cfg.RateLimitReqs,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(rateLimited),
	)
}

// RateLimitScope labels rejections from the /api limiter. It runs before
// chi matches a route, so there is no route pattern to label with.
const RateLimitScope = "api"

func rateLimited(w http.ResponseWriter, r *http.Request) {
	metrics.APIRateLimitHits.WithLabelValues(RateLimitScope).Inc()
	logging.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Str("remote_addr", r.RemoteAddr).Msg("Rate limit exceeded")

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    "TOO_MANY_REQUESTS",
			Message: "Rate limit exceeded, retry later",
		},
	})
}
