// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package format

import (
	"fmt"
	"sort"
)

// DefaultKey is the fallback category and media type.
const DefaultKey = "default"

// Formats maps category -> media type -> template.
type Formats map[string]map[string]string

// Pick returns the template for mediaType in category. Lookups fall back to
// the category's "default" entry, then to the "default" category.
func (f Formats) Pick(category, mediaType string) (string, bool) {
	for _, cat := range []string{category, DefaultKey} {
		byType, ok := f[cat]
		if !ok {
			continue
		}
		if tmpl, ok := byType[mediaType]; ok {
			return tmpl, true
		}
		if tmpl, ok := byType[DefaultKey]; ok {
			return tmpl, true
		}
	}
	return "", false
}

// Validate compiles every template and reports the first failure.
func (f Formats) Validate() error {
	categories := make([]string, 0, len(f))
	for cat := range f {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		types := make([]string, 0, len(f[cat]))
		for mt := range f[cat] {
			types = append(types, mt)
		}
		sort.Strings(types)
		for _, mt := range types {
			if _, err := Compile(f[cat][mt]); err != nil {
				return fmt.Errorf("formats.%s.%s: %w", cat, mt, err)
			}
		}
	}
	return nil
}

// DefaultFormats seeds a new formats.json.
func DefaultFormats() Formats {
	return Formats{
		"recently_added": {
			"movie":   "${title} (${year:-?})",
			"episode": "${grandparent_title} S${parent_media_index|pad2}E${media_index|pad2}",
			"season":  "${parent_title} ${title}",
			"album":   "${parent_title} - ${title}",
			"track":   "${grandparent_title} - ${title}",
			"default": "${display_title}",
		},
		"activity": {
			"episode": "${friendly_name} · ${grandparent_title} S${parent_media_index|pad2}E${media_index|pad2} · ${progress_percent:-0}%",
			"default": "${friendly_name} · ${display_title} · ${progress_percent:-0}%",
		},
		"default": {
			"default": "${display_title}",
		},
	}
}
