// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package upstream holds the HTTP plumbing shared by the Tautulli, Plex and TMDB
clients.

  - DoWithRetry: HTTP 429 handling with exponential backoff (1s, 2s, 4s, 8s, 16s)
    that honours Retry-After and aborts when the context is canceled
  - ReadImage: reads an image response with a size cap
  - Breaker: a sony/gobreaker/v2 circuit breaker with Prometheus state metrics

Errors returned by the clients wrap the sentinels in this package so callers
can tell "not found" from "upstream broken":

	img, err := client.FetchImage(ctx, thumb, 300, 450)
	switch {
	case errors.Is(err, upstream.ErrNotFound):
	    // try the next source
	case upstream.IsUnavailable(err):
	    // breaker open
	}
*/
package upstream
