// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

// Package plex is a minimal Plex Media Server client. Plexboard only needs the
// server identity (health) and the photo transcoder, which serves as the
// third poster tier when Tautulli cannot deliver artwork.
//
// Requests authenticate with the X-Plex-Token header. HTTP 429 is retried with
// exponential backoff, and CircuitBreakerClient adds a gobreaker circuit breaker.
package plex
