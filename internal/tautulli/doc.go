// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package tautulli is the Tautulli API v2 client.

Typed endpoints (get_recently_added, get_activity, get_users, get_libraries,
get_metadata) decode into internal/models/tautulli. Call forwards any command
verbatim for the /api/tautulli/{cmd} proxy, gated by CommandAllowed so write
commands such as delete_* cannot be reached from the browser. FetchImage uses
pms_image_proxy and is the second tier of the poster fallback chain.

Resilience:
  - HTTP 429 is retried with exponential backoff (1s, 2s, 4s, 8s, 16s)
  - CircuitBreakerClient opens after a 60% failure rate over 10+ requests

Example:

	client := tautulli.NewCircuitBreakerClient(&cfg.Tautulli)
	recent, err := client.GetRecentlyAdded(ctx, 25, 0, "", 0)
*/
package tautulli
