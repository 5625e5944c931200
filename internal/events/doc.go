// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package events is the in-process invalidation bus.

Components that change cached or persisted state (the poster cache, the
formats.json store, the log buffer) publish an Event; consumers such as the
websocket bridge and the API response cache subscribe and react. The bus is
a watermill GoChannel on a single topic, so every subscriber receives every
event and filters by Type.

	bus := events.NewBus(events.Config{})
	defer bus.Close()

	_ = bus.Publish(ctx, events.PosterInvalidated("12345"))
*/
package events
