// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package models

import "time"

// DashboardItem is one media item resolved for display.
type DashboardItem struct {
	RatingKey   string    `json:"rating_key"`
	PosterKey   string    `json:"poster_key"`
	MediaType   string    `json:"media_type"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Text        string    `json:"text,omitempty"`
	Year        int       `json:"year,omitempty"`
	LibraryName string    `json:"library_name,omitempty"`
	SectionID   string    `json:"section_id,omitempty"`
	AddedAt     time.Time `json:"added_at,omitempty"`
	PosterURL   string    `json:"poster_url"`
}

// RecentlyAddedView is the payload of /api/dashboard/recently-added.
type RecentlyAddedView struct {
	Total int             `json:"total"`
	Items []DashboardItem `json:"items"`
}

// SessionView is one active stream or download.
type SessionView struct {
	DashboardItem
	SessionKey        string  `json:"session_key"`
	User              string  `json:"user"`
	UserThumb         string  `json:"user_thumb,omitempty"`
	Player            string  `json:"player,omitempty"`
	Platform          string  `json:"platform,omitempty"`
	Product           string  `json:"product,omitempty"`
	State             string  `json:"state"`
	Progress          float64 `json:"progress"`
	ViewOffsetMS      int64   `json:"view_offset_ms"`
	DurationMS        int64   `json:"duration_ms"`
	TranscodeDecision string  `json:"transcode_decision,omitempty"`
	QualityProfile    string  `json:"quality_profile,omitempty"`
	BandwidthKbps     int64   `json:"bandwidth_kbps,omitempty"`
	Download          bool    `json:"download"`
	Live              bool    `json:"live,omitempty"`
}

// ActivityView is the payload of /api/dashboard/activity.
type ActivityView struct {
	StreamCount    int           `json:"stream_count"`
	DirectPlay     int           `json:"direct_play"`
	DirectStream   int           `json:"direct_stream"`
	Transcode      int           `json:"transcode"`
	TotalBandwidth int64         `json:"total_bandwidth_kbps"`
	LANBandwidth   int64         `json:"lan_bandwidth_kbps"`
	WANBandwidth   int64         `json:"wan_bandwidth_kbps"`
	Sessions       []SessionView `json:"sessions"`
}

// UserView is one Plex user known to Tautulli.
type UserView struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	FriendlyName string `json:"friendly_name"`
	Thumb        string `json:"thumb,omitempty"`
	IsActive     bool   `json:"is_active"`
	IsHomeUser   bool   `json:"is_home_user"`
}

// LibraryView is one Plex library section.
type LibraryView struct {
	SectionID   string `json:"section_id"`
	SectionName string `json:"section_name"`
	SectionType string `json:"section_type"`
	Count       int64  `json:"count"`
	ParentCount int64  `json:"parent_count,omitempty"`
	ChildCount  int64  `json:"child_count,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// SectionItems is the rendered content of one configured dashboard section.
// Items holds DashboardItem, SessionView, UserView or LibraryView values
// depending on the section type.
type SectionItems struct {
	SectionID string      `json:"section_id"`
	Type      string      `json:"type"`
	Title     string      `json:"title"`
	Items     interface{} `json:"items"`
}

// PosterInfo describes a cached poster without its bytes.
type PosterInfo struct {
	Key         string    `json:"key"`
	Source      string    `json:"source"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	ETag        string    `json:"etag"`
	FetchedAt   time.Time `json:"fetched_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Layer       string    `json:"layer,omitempty"`
}

// PrefetchResult summarizes one prefetched poster.
type PrefetchResult struct {
	RatingKey string `json:"rating_key"`
	Source    string `json:"source,omitempty"`
	Error     string `json:"error,omitempty"`
}
