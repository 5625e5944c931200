// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package supervisor runs the long-lived parts of the server under a suture
v4 supervisor tree.

	plexboard (root)
	├── data-layer
	│   ├── poster-gc          (services.TickerService)
	│   ├── formats-watcher    (services.WatchService)
	│   └── config-watcher     (services.WatchService)
	├── messaging-layer
	│   ├── websocket-hub      (services.RunnerService)
	│   ├── ws-event-bridge    (services.RunnerService)
	│   └── cache-event-bridge (services.RunnerService)
	└── api-layer
	    └── http-server        (services.HTTPServerService)

A service returning an error is restarted with backoff. After
FailureThreshold failures (decaying over FailureDecay seconds) the
supervisor waits FailureBackoff before trying again. Supervisor events are
logged through sutureslog on the slog bridge of the zerolog logger.

Usage:

	tree := supervisor.NewTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, 10*time.Second))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
