// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package media

import "strings"

// Type is a Plex media type.
type Type string

const (
	Movie   Type = "movie"
	Show    Type = "show"
	Season  Type = "season"
	Episode Type = "episode"
	Artist  Type = "artist"
	Album   Type = "album"
	Track   Type = "track"
	Photo   Type = "photo"
	Clip    Type = "clip"
	Live    Type = "live"
	Unknown Type = "unknown"
)

var knownTypes = map[string]Type{
	"movie":   Movie,
	"show":    Show,
	"season":  Season,
	"episode": Episode,
	"artist":  Artist,
	"album":   Album,
	"track":   Track,
	"photo":   Photo,
	"clip":    Clip,
	"live":    Live,
}

// ParseType maps a Tautulli media_type onto a Type. Unrecognized values,
// including the empty string, are Unknown.
func ParseType(s string) Type {
	if t, ok := knownTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return Unknown
}

func (t Type) String() string { return string(t) }

// IsTV reports whether t belongs to a TV hierarchy.
func (t Type) IsTV() bool {
	return t == Show || t == Season || t == Episode
}

// IsMusic reports whether t belongs to a music hierarchy.
func (t Type) IsMusic() bool {
	return t == Artist || t == Album || t == Track
}
