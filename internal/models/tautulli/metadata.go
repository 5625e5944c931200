// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package tautulli

// TautulliMetadata represents the API response from Tautulli's get_metadata endpoint
type TautulliMetadata struct {
	Response TautulliMetadataResponse `json:"response"`
}

type TautulliMetadataResponse struct {
	Result  string               `json:"result"`
	Message *string              `json:"message,omitempty"`
	Data    TautulliMetadataData `json:"data"`
}

// TautulliMetadataData is the subset of get_metadata used for artwork
// resolution. Guids carries external ids such as "tmdb://603".
type TautulliMetadataData struct {
	RatingKey            string   `json:"rating_key"`
	ParentRatingKey      string   `json:"parent_rating_key"`
	GrandparentRatingKey string   `json:"grandparent_rating_key"`
	MediaType            string   `json:"media_type"`
	Title                string   `json:"title"`
	ParentTitle          string   `json:"parent_title"`
	GrandparentTitle     string   `json:"grandparent_title"`
	Year                 FlexInt  `json:"year"`
	Thumb                string   `json:"thumb"`
	ParentThumb          string   `json:"parent_thumb"`
	GrandparentThumb     string   `json:"grandparent_thumb"`
	GUID                 string   `json:"guid"`
	Guids                []string `json:"guids"`
	LibraryName          string   `json:"library_name"`
	SectionID            FlexInt  `json:"section_id"`
}
