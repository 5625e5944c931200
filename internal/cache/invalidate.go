// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package cache

import (
	"github.com/tomtom215/plexboard/internal/events"
	"github.com/tomtom215/plexboard/internal/logging"
)

// HandleEvent clears the cache when ev makes cached responses stale. It is
// an events.Handler.
func (c *Cache) HandleEvent(ev events.Event) {
	if !ev.ClearsAPICache() {
		return
	}
	n := c.Clear()
	logging.Debug().
		Str("cache", c.name).
		Str("event", ev.Type).
		Str("key", ev.Key).
		Int("removed", n).
		Msg("Response cache cleared")
}
