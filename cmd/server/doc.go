// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package main is the entry point for the Plexboard server.

Plexboard is the backend of a self-hosted Plex dashboard. It stores the
dashboard layout and display templates in formats.json, turns Tautulli data
into rendered sections, proxies allow-listed Tautulli commands and serves a
multi-layer poster cache (memory, BadgerDB, then TMDB, Tautulli and Plex).

# Application Architecture

Long-running work runs under Suture v4 supervision:

	RootSupervisor ("plexboard")
	├── DataSupervisor ("data-layer")
	│   ├── poster-gc (memory sweep + BadgerDB value log GC)
	│   ├── formats-watcher (reloads formats.json edited on disk)
	│   └── config-watcher (applies log level changes)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── websocket-hub
	│   ├── ws-event-bridge (bus -> websocket clients)
	│   └── cache-event-bridge (bus -> API response cache)
	└── APISupervisor ("api-layer")
	    └── http-server

Component initialization order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog with optional lumberjack file and in-memory buffer
 3. Event bus: Watermill GoChannel
 4. Document store: formats.json
 5. Upstream clients: Tautulli, Plex, TMDB behind circuit breakers
 6. Poster cache: memory LRU, BadgerDB, upstream chain
 7. WebSocket hub, HTTP handler and router
 8. Supervisor tree

# Configuration

Priority: Environment variables > Config file > Defaults

	TAUTULLI_URL=http://tautulli:8181
	TAUTULLI_API_KEY=<key>
	TAUTULLI_ALLOWED_COMMANDS=get_*,arnold
	PLEX_URL=http://plex:32400     # optional secondary artwork source
	PLEX_TOKEN=<token>
	TMDB_API_KEY=<key>              # optional primary artwork source
	PORT=3001
	DATA_DIR=./data
	VITE_API_BASE_URL=https://dash.example.com
	LOG_LEVEL=info
	LOG_FILE=./data/plexboard.log

CONFIG_PATH points at a YAML file; otherwise config.yaml is looked up in the
working directory and /etc/plexboard.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
to 10 seconds, then the poster disk cache, event bus and log file are
closed.
*/
package main
