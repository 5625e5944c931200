// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

/*
Package format renders the user-editable display templates stored in
formats.json.

Syntax:

	${name}                  variable, "" when unknown
	${name:-fallback}        fallback when the variable is empty
	${name|upper|truncate:20} filters, applied left to right
	$$                       a literal $

The fallback is applied before filters. Filter arguments run to the next
'|' so layouts such as ${added_at|date:Jan 2 15:04} work.

Filters: upper, lower, title, pad2, date[:layout], relative, bytes, comma,
duration, truncate:n, default:x. Numeric filters leave values they cannot
parse unchanged.
*/
package format
