// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

// Package tautulli provides data models for the Tautulli API v2 responses
// Plexboard consumes.
//
// Every response is wrapped as {"response": {"result", "message", "data"}}.
// Tautulli is inconsistent about numeric fields (the same field may arrive as
// 42, "42" or ""), so counters and ids that vary use FlexInt.
//
// Endpoints covered:
//   - get_recently_added: TautulliRecentlyAdded
//   - get_activity: TautulliActivity
//   - get_users: TautulliUsers
//   - get_libraries: TautulliLibraries
//   - get_metadata: TautulliMetadata
package tautulli
