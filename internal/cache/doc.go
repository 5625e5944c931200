// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package cache holds the TTL cache for typed Tautulli responses served by the
/api/dashboard and /api/sections endpoints.

Entries expire after the configured API cache TTL but are retained for a
stale window: when Tautulli is unreachable the handlers answer from GetStale
with metadata.cached=true instead of failing. HandleEvent clears the cache on
cache_cleared{api|all} and document_updated{sections}.

Hits, misses, evictions and size are exported to Prometheus under the cache's
name (cache_type="api").
*/
package cache
