// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package poster is the layered poster cache.

A lookup walks three layers:

 1. Memory: an entry-count bounded LRU with per-entry expiry
 2. Disk: a BadgerDB store whose keys carry a native TTL
 3. Upstream: an ordered chain of Sources (TMDB, Tautulli pms_image_proxy,
    Plex photo transcode) ending in a generated SVG placeholder

Hits on a lower layer are promoted to the layers above. Concurrent misses for
the same rating key share one upstream fetch through singleflight, and every
upstream fetch waits on a token bucket so a dashboard full of new items does
not hammer Plex. Upstream failures never reach the caller: they are logged and
the next source is tried. The placeholder is stored with a short TTL so real
artwork is picked up once it appears.

Invalidate and Clear remove keys from every layer before publishing
poster_invalidated and cache_cleared events.
*/
package poster
