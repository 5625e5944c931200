// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package tmdb

import "strings"

// Kind is the TMDB media namespace.
type Kind string

const (
	KindNone  Kind = ""
	KindMovie Kind = "movie"
	KindTV    Kind = "tv"
)

// Ref identifies a title by whichever external ids are known.
type Ref struct {
	Kind   Kind
	TMDBID string
	IMDbID string
	TVDBID string
}

// Empty reports whether no id is known.
func (r Ref) Empty() bool {
	return r.TMDBID == "" && r.IMDbID == "" && r.TVDBID == ""
}

// legacyAgents maps pre-2020 Plex agent guid schemes onto modern ones.
var legacyAgents = map[string]string{
	"com.plexapp.agents.themoviedb": "tmdb",
	"com.plexapp.agents.imdb":       "imdb",
	"com.plexapp.agents.thetvdb":    "tvdb",
}

// ParseGUIDs extracts external ids from Plex guids. The first id of each
// scheme wins. Kind is left for the caller to set.
func ParseGUIDs(guids []string) Ref {
	var ref Ref
	for _, guid := range guids {
		scheme, id, ok := strings.Cut(guid, "://")
		if !ok {
			continue
		}
		if modern, ok := legacyAgents[scheme]; ok {
			scheme = modern
		}
		// Legacy guids append "?lang=en" and, for episodes, "/season/episode".
		if i := strings.IndexAny(id, "?/"); i >= 0 {
			id = id[:i]
		}
		if id == "" {
			continue
		}

		switch scheme {
		case "tmdb":
			if ref.TMDBID == "" && isDigits(id) {
				ref.TMDBID = id
			}
		case "imdb":
			if ref.IMDbID == "" && strings.HasPrefix(id, "tt") && isDigits(id[2:]) {
				ref.IMDbID = id
			}
		case "tvdb":
			if ref.TVDBID == "" && isDigits(id) {
				ref.TVDBID = id
			}
		}
	}
	return ref
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
