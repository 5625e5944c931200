// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package poster

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"
)

// PlaceholderContentType is the media type of generated placeholders.
const PlaceholderContentType = "image/svg+xml"

const (
	placeholderLineRunes = 22
	placeholderMaxLines  = 3
)

// Placeholder renders the "No Preview" SVG shown when no source has
// artwork. The title is XML-escaped and wrapped onto at most three lines.
func Placeholder(title string, width, height int) []byte {
	if width <= 0 {
		width = 300
	}
	if height <= 0 {
		height = 450
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, width, height, width, height)
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="#1f2326"/>`)
	fmt.Fprintf(&b, `<text x="50%%" y="%d" fill="#8a9099" font-family="sans-serif" font-size="%d" text-anchor="middle">No Preview</text>`,
		height/2-height/10, height/18)

	lines := wrapTitle(title)
	lineHeight := height / 16
	y := height/2 + lineHeight/2
	for _, line := range lines {
		fmt.Fprintf(&b, `<text x="50%%" y="%d" fill="#e5a00d" font-family="sans-serif" font-size="%d" text-anchor="middle">%s</text>`,
			y, height/22, html.EscapeString(line))
		y += lineHeight
	}
	b.WriteString(`</svg>`)
	return []byte(b.String())
}

// wrapTitle splits title on spaces into short lines. Words longer than a
// line are cut. The last line gets an ellipsis when text was dropped.
func wrapTitle(title string) []string {
	words := strings.Fields(title)
	var lines []string
	var cur string
	truncated := false

	for _, w := range words {
		if utf8.RuneCountInString(w) > placeholderLineRunes {
			w = string([]rune(w)[:placeholderLineRunes-1]) + "…"
		}
		switch {
		case cur == "":
			cur = w
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(w) <= placeholderLineRunes:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
		if len(lines) == placeholderMaxLines {
			truncated = true
			cur = ""
			break
		}
	}
	if cur != "" && len(lines) < placeholderMaxLines {
		lines = append(lines, cur)
	}
	if truncated {
		last := lines[len(lines)-1]
		if !strings.HasSuffix(last, "…") {
			lines[len(lines)-1] = last + "…"
		}
	}
	return lines
}
