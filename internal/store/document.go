// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package store

import (
	"github.com/goccy/go-json"

	"github.com/tomtom215/plexboard/internal/format"
)

// Document kinds.
const (
	KindConfig   = "config"
	KindFormats  = "formats"
	KindSections = "sections"
)

// Kinds lists every document kind.
var Kinds = []string{KindConfig, KindFormats, KindSections}

// Section types.
const (
	SectionRecentlyAdded = "recently_added"
	SectionActivity      = "activity"
	SectionUsers         = "users"
	SectionLibraries     = "libraries"
)

// Section is one configured dashboard panel.
type Section struct {
	ID               string `json:"id" validate:"required,sectionid"`
	Type             string `json:"type" validate:"required,oneof=recently_added activity users libraries"`
	Title            string `json:"title" validate:"max=200"`
	LibrarySectionID string `json:"library_section_id,omitempty" validate:"omitempty,numeric,max=10"`
	MediaType        string `json:"media_type,omitempty" validate:"omitempty,oneof=movie show season episode artist album track photo clip live"`
	Count            int    `json:"count,omitempty" validate:"min=0,max=100"`
	FormatCategory   string `json:"format_category,omitempty" validate:"omitempty,max=64"`
	Enabled          bool   `json:"enabled"`
}

// Category returns the format category used to render the section.
func (s Section) Category() string {
	if s.FormatCategory != "" {
		return s.FormatCategory
	}
	return s.Type
}

// Document is the parsed form of formats.json.
type Document struct {
	Config   json.RawMessage `json:"config"`
	Formats  format.Formats  `json:"formats"`
	Sections []Section       `json:"sections"`
}

// DefaultDocument seeds a new formats.json.
func DefaultDocument() Document {
	return Document{
		Config:  json.RawMessage(`{}`),
		Formats: format.DefaultFormats(),
		Sections: []Section{
			{ID: "recent-movies", Type: SectionRecentlyAdded, Title: "Recently Added Movies", MediaType: "movie", Count: 20, Enabled: true},
			{ID: "recent-shows", Type: SectionRecentlyAdded, Title: "Recently Added TV", MediaType: "show", Count: 20, Enabled: true},
			{ID: "activity", Type: SectionActivity, Title: "Now Playing", Enabled: true},
			{ID: "libraries", Type: SectionLibraries, Title: "Libraries", Enabled: false},
			{ID: "users", Type: SectionUsers, Title: "Users", Enabled: false},
		},
	}
}

// field returns the JSON of one kind.
func (d *Document) field(kind string) (json.RawMessage, error) {
	switch kind {
	case KindConfig:
		return d.Config, nil
	case KindFormats:
		return json.Marshal(d.Formats)
	case KindSections:
		return json.Marshal(d.Sections)
	default:
		return nil, ErrUnknownDocument
	}
}

// fillDefaults replaces missing parts of an older or hand-written file.
func (d *Document) fillDefaults() {
	def := DefaultDocument()
	if len(d.Config) == 0 || string(d.Config) == "null" {
		d.Config = def.Config
	}
	if d.Formats == nil {
		d.Formats = def.Formats
	}
	if d.Sections == nil {
		d.Sections = def.Sections
	}
}

func (d *Document) clone() Document {
	c := Document{
		Config:   append(json.RawMessage(nil), d.Config...),
		Formats:  make(format.Formats, len(d.Formats)),
		Sections: append([]Section(nil), d.Sections...),
	}
	for cat, byType := range d.Formats {
		m := make(map[string]string, len(byType))
		for k, v := range byType {
			m[k] = v
		}
		c.Formats[cat] = m
	}
	return c
}
