// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package media normalizes Tautulli rows into a single Item and answers the
per-type questions every dashboard view asks: which title to show, which
line goes underneath, and whose artwork represents the item.

Plex nests content (show > season > episode, artist > album > track), and
the right answer differs per level:

	Type      DisplayTitle             PosterThumb                PosterKey
	episode   grandparent_title        show, season, own          show
	season    parent_title             own, show                  season
	track     artist - title           album, artist              album
	other     title                    own                        own

FromRecentlyAdded and FromSession adapt the two Tautulli shapes.
*/
package media
