// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package tautulli

// TautulliRecentlyAdded represents the API response from get_recently_added endpoint
type TautulliRecentlyAdded struct {
	Response TautulliRecentlyAddedResponse `json:"response"`
}

type TautulliRecentlyAddedResponse struct {
	Result  string                    `json:"result"`
	Message *string                   `json:"message,omitempty"`
	Data    TautulliRecentlyAddedData `json:"data"`
}

type TautulliRecentlyAddedData struct {
	RecordsTotal  FlexInt                     `json:"records_total"`
	RecentlyAdded []TautulliRecentlyAddedItem `json:"recently_added"`
}

type TautulliRecentlyAddedItem struct {
	RatingKey            string   `json:"rating_key"`
	ParentRatingKey      string   `json:"parent_rating_key"`
	GrandparentRatingKey string   `json:"grandparent_rating_key"`
	Title                string   `json:"title"`
	ParentTitle          string   `json:"parent_title"`
	GrandparentTitle     string   `json:"grandparent_title"`
	OriginalTitle        string   `json:"original_title"`
	MediaType            string   `json:"media_type"`
	MediaIndex           FlexInt  `json:"media_index"`
	ParentMediaIndex     FlexInt  `json:"parent_media_index"`
	Year                 FlexInt  `json:"year"`
	Thumb                string   `json:"thumb"`
	ParentThumb          string   `json:"parent_thumb"`
	GrandparentThumb     string   `json:"grandparent_thumb"`
	AddedAt              FlexInt  `json:"added_at"`
	LibraryName          string   `json:"library_name"`
	SectionID            FlexInt  `json:"section_id"`
	Guids                []string `json:"guids"`
}
