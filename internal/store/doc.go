// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package store persists formats.json, the single document behind
/api/config, /api/formats and /api/sections:

	{
	  "config":   { ...opaque UI settings... },
	  "formats":  { "recently_added": { "movie": "${title} (${year})" } },
	  "sections": [ { "id": "movies", "type": "recently_added", ... } ]
	}

Every write is validated (JSON Schema, then struct rules for sections),
serialized by a mutex and written atomically through a temp file and
rename, so a crash mid-write leaves the previous file intact. A file that
cannot be parsed at startup is moved aside as formats.json.corrupt-<ts> and
replaced by defaults.

Successful writes publish document_updated with the kind as key.
*/
package store
