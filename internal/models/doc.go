// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package models defines the data structures shared across Plexboard.

Key Components:

  - APIResponse, Metadata, APIError: the JSON envelope every endpoint answers with
  - DashboardItem, ActivityView, UserView, LibraryView: typed dashboard payloads
  - SectionItems: rendered items of one configured dashboard section
  - PosterInfo, PrefetchResult: poster cache views

Upstream Tautulli response shapes live in the tautulli subpackage.

Example:

	resp := models.APIResponse{
	    Status:   "success",
	    Data:     items,
	    Metadata: models.Metadata{Timestamp: time.Now()},
	}
*/
package models
