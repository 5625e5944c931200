// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package websocket pushes cache-invalidation events to connected dashboards.

The Hub runs under the messaging supervisor (RunWithContext). The event
bridge subscribes to the events bus and calls Hub.BroadcastEvent, which
queues

	{"type": "event", "data": {"id": "...", "type": "poster_invalidated", "key": "12345", "time": "..."}}

for every client. The UI reacts by dropping its own copy of the poster or
refetching the document named in the event.

Clients get a "hello" message on connect and may send {"type":"ping"} to
receive {"type":"pong"}. Protocol pings are sent every 54s and a client
that does not answer within 60s is disconnected. Slow clients whose send
buffer fills up are dropped rather than blocking the broadcast.
*/
package websocket
