// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package tautulli

// TautulliLibraries represents the API response from get_libraries endpoint
type TautulliLibraries struct {
	Response TautulliLibrariesResponse `json:"response"`
}

type TautulliLibrariesResponse struct {
	Result  string                  `json:"result"`
	Message *string                 `json:"message,omitempty"`
	Data    []TautulliLibraryDetail `json:"data"`
}

type TautulliLibraryDetail struct {
	SectionID   FlexInt `json:"section_id"`
	SectionName string  `json:"section_name"`
	SectionType string  `json:"section_type"`
	Count       FlexInt `json:"count"`
	ParentCount FlexInt `json:"parent_count"`
	ChildCount  FlexInt `json:"child_count"`
	IsActive    FlexInt `json:"is_active"`
	Thumb       string  `json:"thumb"`
	Art         string  `json:"art"`
}
