// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

// Package logging provides the process-wide zerolog logger.
//
// Every record goes to the terminal (JSON or console format), to an optional
// rotating log file, and to an in-memory ring buffer. The buffer and the file
// back the /api/logs endpoints; the browser UI also appends its own entries
// to the buffer through POST /api/logs.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console", File: "/data/plexboard.log"})
//	logging.Info().Str("addr", addr).Msg("server listening")
//	logging.Ctx(ctx).Warn().Err(err).Msg("tautulli unavailable")
//
// An slog adapter (NewSlogLogger) routes the supervisor's event hook into the
// same sinks.
package logging
