// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

// Package tmdb resolves poster artwork through The Movie Database API v3.
//
// Plex metadata carries external ids as guids (tmdb://438631, imdb://tt1160419,
// tvdb://81189). ParseGUIDs extracts them into a Ref, and PosterURL looks the
// Ref up: directly by TMDB id when known, otherwise through /find with the
// IMDb or TVDB id. Requests are throttled by a token bucket and the
// CircuitBreakerClient stops calling TMDB while it is failing.
package tmdb
