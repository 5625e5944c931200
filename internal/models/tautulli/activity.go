// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package tautulli

// TautulliActivity represents the API response from Tautulli's get_activity endpoint
type TautulliActivity struct {
	Response TautulliActivityResponse `json:"response"`
}

type TautulliActivityResponse struct {
	Result  string               `json:"result"`
	Message *string              `json:"message,omitempty"`
	Data    TautulliActivityData `json:"data"`
}

type TautulliActivityData struct {
	LANBandwidth            FlexInt                   `json:"lan_bandwidth"`
	WANBandwidth            FlexInt                   `json:"wan_bandwidth"`
	TotalBandwidth          FlexInt                   `json:"total_bandwidth"`
	StreamCount             FlexInt                   `json:"stream_count"`
	StreamCountDirectPlay   FlexInt                   `json:"stream_count_direct_play"`
	StreamCountDirectStream FlexInt                   `json:"stream_count_direct_stream"`
	StreamCountTranscode    FlexInt                   `json:"stream_count_transcode"`
	Sessions                []TautulliActivitySession `json:"sessions"`
}

// TautulliActivitySession is one active stream or sync download.
// Only the fields the dashboard renders are decoded.
type TautulliActivitySession struct {
	SessionKey string `json:"session_key"`
	SessionID  string `json:"session_id"`

	MediaType            string  `json:"media_type"`
	RatingKey            string  `json:"rating_key"`
	ParentRatingKey      string  `json:"parent_rating_key"`
	GrandparentRatingKey string  `json:"grandparent_rating_key"`
	Title                string  `json:"title"`
	ParentTitle          string  `json:"parent_title"`
	GrandparentTitle     string  `json:"grandparent_title"`
	FullTitle            string  `json:"full_title"`
	MediaIndex           FlexInt `json:"media_index"`        // episode or track number
	ParentMediaIndex     FlexInt `json:"parent_media_index"` // season or disc number
	Year                 FlexInt `json:"year"`
	LibraryName          string  `json:"library_name"`
	SectionID            FlexInt `json:"section_id"`

	Thumb            string `json:"thumb"`
	ParentThumb      string `json:"parent_thumb"`
	GrandparentThumb string `json:"grandparent_thumb"`
	Art              string `json:"art"`

	User         string  `json:"user"`
	UserID       FlexInt `json:"user_id"`
	FriendlyName string  `json:"friendly_name"`
	UserThumb    string  `json:"user_thumb"`

	Player         string `json:"player"`
	Platform       string `json:"platform"`
	Product        string `json:"product"`
	QualityProfile string `json:"quality_profile"`

	// State is playing, paused or buffering.
	State           string  `json:"state"`
	ViewOffset      FlexInt `json:"view_offset"`
	Duration        FlexInt `json:"duration"`
	ProgressPercent FlexInt `json:"progress_percent"`
	Bandwidth       FlexInt `json:"bandwidth"`
	Live            FlexInt `json:"live"`

	// TranscodeDecision is direct play, copy or transcode.
	TranscodeDecision string `json:"transcode_decision"`

	// Synced is set for mobile sync downloads rather than playback.
	Synced FlexInt `json:"synced_version"`
}
