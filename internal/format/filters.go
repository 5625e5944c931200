// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

type filterFunc func(value, arg string) string

// DefaultDateLayout is used by the date filter without an argument.
const DefaultDateLayout = "2006-01-02"

var filters = map[string]filterFunc{
	"upper": func(v, _ string) string { return strings.ToUpper(v) },
	"lower": func(v, _ string) string { return strings.ToLower(v) },
	"title": func(v, _ string) string { return toTitleCase(v) },
	"pad2": func(v, _ string) string {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return v
		}
		return fmt.Sprintf("%02d", n)
	},
	"date": func(v, layout string) string {
		t, ok := parseTime(v)
		if !ok {
			return v
		}
		if layout == "" {
			layout = DefaultDateLayout
		}
		return t.Local().Format(layout)
	},
	"relative": func(v, _ string) string {
		t, ok := parseTime(v)
		if !ok {
			return v
		}
		return humanize.Time(t)
	},
	"bytes": func(v, _ string) string {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return v
		}
		return humanize.Bytes(n)
	},
	"comma": func(v, _ string) string {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return v
		}
		return humanize.Comma(n)
	},
	"duration": func(v, _ string) string {
		ms, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return v
		}
		return formatDuration(time.Duration(ms) * time.Millisecond)
	},
	"truncate": func(v, arg string) string {
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || n <= 0 || utf8.RuneCountInString(v) <= n {
			return v
		}
		runes := []rune(v)
		return strings.TrimRight(string(runes[:n]), " ") + "…"
	},
	"default": func(v, arg string) string {
		if v == "" {
			return arg
		}
		return v
	},
}

// FilterNames lists the supported filters.
func FilterNames() []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	return names
}

// parseTime accepts unix seconds (as Tautulli sends them) or RFC 3339.
func parseTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	if sec, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(sec, 0), true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// formatDuration renders 1h 5m, 42m or 30s.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
}

// toTitleCase converts a string to title case.
func toTitleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		words[i] = strings.ToUpper(string(r)) + strings.ToLower(word[size:])
	}
	return strings.Join(words, " ")
}
