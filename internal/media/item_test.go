// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package media

import (
	"testing"
	"time"

	tmodels "github.com/tomtom215/plexboard/internal/models/tautulli"
	"github.com/tomtom215/plexboard/internal/tmdb"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"movie", Movie},
		{"episode", Episode},
		{"Season", Season},
		{" track ", Track},
		{"live", Live},
		{"", Unknown},
		{"podcast", Unknown},
	}
	for _, tt := range tests {
		if got := ParseType(tt.in); got != tt.want {
			t.Errorf("ParseType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

var (
	episode = Item{
		Type:                 Episode,
		RatingKey:            "300",
		ParentRatingKey:      "200",
		GrandparentRatingKey: "100",
		Title:                "Pilot",
		ParentTitle:          "Season 1",
		GrandparentTitle:     "Severance",
		MediaIndex:           1,
		ParentMediaIndex:     1,
		Thumb:                "/library/metadata/300/thumb/1",
		ParentThumb:          "/library/metadata/200/thumb/1",
		GrandparentThumb:     "/library/metadata/100/thumb/1",
	}
	season = Item{
		Type:            Season,
		RatingKey:       "200",
		ParentRatingKey: "100",
		Title:           "Season 2",
		ParentTitle:     "Severance",
		ParentThumb:     "/library/metadata/100/thumb/1",
	}
	track = Item{
		Type:                 Track,
		RatingKey:            "9003",
		ParentRatingKey:      "9002",
		GrandparentRatingKey: "9001",
		Title:                "Airbag",
		ParentTitle:          "OK Computer",
		GrandparentTitle:     "Radiohead",
		Thumb:                "",
		ParentThumb:          "/library/metadata/9002/thumb/1",
		GrandparentThumb:     "/library/metadata/9001/thumb/1",
	}
	album = Item{
		Type:        Album,
		RatingKey:   "9002",
		Title:       "OK Computer",
		ParentTitle: "Radiohead",
		Thumb:       "/library/metadata/9002/thumb/1",
	}
	movie = Item{
		Type:      Movie,
		RatingKey: "50",
		Title:     "Dune",
		Year:      2021,
		Thumb:     "/library/metadata/50/thumb/1",
	}
)

func TestItem_Resolution(t *testing.T) {
	tests := []struct {
		name         string
		item         Item
		displayTitle string
		subtitle     string
		thumb        string
		posterKey    string
		kind         tmdb.Kind
	}{
		{"episode", episode, "Severance", "S01E01 · Pilot", "/library/metadata/100/thumb/1", "100", tmdb.KindTV},
		{"season", season, "Severance", "Season 2", "/library/metadata/100/thumb/1", "200", tmdb.KindTV},
		{"track", track, "Radiohead - Airbag", "OK Computer", "/library/metadata/9002/thumb/1", "9002", tmdb.KindNone},
		{"album", album, "OK Computer", "Radiohead", "/library/metadata/9002/thumb/1", "9002", tmdb.KindNone},
		{"movie", movie, "Dune", "", "/library/metadata/50/thumb/1", "50", tmdb.KindMovie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.DisplayTitle(); got != tt.displayTitle {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.displayTitle)
			}
			if got := tt.item.Subtitle(); got != tt.subtitle {
				t.Errorf("Subtitle() = %q, want %q", got, tt.subtitle)
			}
			if got := tt.item.PosterThumb(); got != tt.thumb {
				t.Errorf("PosterThumb() = %q, want %q", got, tt.thumb)
			}
			if got := tt.item.PosterKey(); got != tt.posterKey {
				t.Errorf("PosterKey() = %q, want %q", got, tt.posterKey)
			}
			if got := tt.item.TMDBKind(); got != tt.kind {
				t.Errorf("TMDBKind() = %q, want %q", got, tt.kind)
			}
		})
	}
}

func TestItem_EpisodeFallbacks(t *testing.T) {
	// Episodes of shows without artwork fall back to season, then their own thumb.
	e := episode
	e.GrandparentThumb = ""
	if got := e.PosterThumb(); got != e.ParentThumb {
		t.Errorf("PosterThumb() = %q, want season thumb", got)
	}
	e.ParentThumb = ""
	if got := e.PosterThumb(); got != e.Thumb {
		t.Errorf("PosterThumb() = %q, want own thumb", got)
	}

	// Date-based episodes have no index.
	e.MediaIndex, e.ParentMediaIndex = 0, 0
	if got := e.Subtitle(); got != "Pilot" {
		t.Errorf("Subtitle() = %q, want Pilot", got)
	}

	e.GrandparentRatingKey = ""
	if got := e.PosterKey(); got != "200" {
		t.Errorf("PosterKey() = %q, want 200", got)
	}
}

func TestItem_Vars(t *testing.T) {
	m := movie
	m.AddedAt = time.Unix(1700000000, 0)
	v := m.Vars()

	if v["title"] != "Dune" || v["year"] != "2021" || v["display_title"] != "Dune" {
		t.Errorf("Vars() = %v", v)
	}
	if v["added_at"] != "1700000000" {
		t.Errorf("added_at = %q", v["added_at"])
	}
	if _, ok := v["media_index"]; ok {
		t.Error("zero media_index should be omitted")
	}
	if _, ok := v["user"]; ok {
		t.Error("session vars should be absent without a session")
	}

	e := episode
	e.Session = &Session{User: "alice", State: "playing", ViewOffsetMS: 600000, DurationMS: 3600000}
	v = e.Vars()
	if v["friendly_name"] != "alice" || v["state"] != "playing" {
		t.Errorf("session vars = %v", v)
	}
	if v["remaining"] != "3000000" {
		t.Errorf("remaining = %q, want 3000000", v["remaining"])
	}
	if v["subtitle"] != "S01E01 · Pilot" {
		t.Errorf("subtitle = %q", v["subtitle"])
	}
}

func TestFromRecentlyAdded(t *testing.T) {
	row := &tmodels.TautulliRecentlyAddedItem{
		RatingKey:            "300",
		GrandparentRatingKey: "100",
		MediaType:            "episode",
		Title:                "Pilot",
		GrandparentTitle:     "Severance",
		MediaIndex:           1,
		ParentMediaIndex:     1,
		AddedAt:              1700000000,
		SectionID:            2,
		Guids:                []string{"tmdb://1"},
	}
	it := FromRecentlyAdded(row)
	if it.Type != Episode || it.SectionID != "2" || it.MediaIndex != 1 {
		t.Errorf("FromRecentlyAdded() = %+v", it)
	}
	if !it.AddedAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("AddedAt = %v", it.AddedAt)
	}
	if it.Session != nil {
		t.Error("recently added rows have no session")
	}
	if len(it.Guids) != 1 {
		t.Errorf("Guids = %v", it.Guids)
	}
}

func TestFromSession(t *testing.T) {
	s := &tmodels.TautulliActivitySession{
		SessionKey:      "12",
		MediaType:       "movie",
		RatingKey:       "50",
		Title:           "Dune",
		User:            "bob",
		State:           "paused",
		ViewOffset:      1000,
		Duration:        9000,
		ProgressPercent: 11,
		Bandwidth:       8000,
		Synced:          1,
	}
	it := FromSession(s)
	if it.Type != Movie || it.Session == nil {
		t.Fatalf("FromSession() = %+v", it)
	}
	if it.Session.SessionKey != "12" || it.Session.DurationMS != 9000 || !it.Session.Download || it.Session.Live {
		t.Errorf("Session = %+v", it.Session)
	}
}

func TestFromMetadata(t *testing.T) {
	m := &tmodels.TautulliMetadataData{
		RatingKey:            "301",
		ParentRatingKey:      "200",
		GrandparentRatingKey: "100",
		MediaType:            "episode",
		GrandparentThumb:     "/library/metadata/100/thumb/1",
		Guids:                []string{"tvdb://123"},
		SectionID:            2,
	}
	it := FromMetadata(m)
	if it.PosterKey() != "100" || it.PosterThumb() != "/library/metadata/100/thumb/1" {
		t.Errorf("poster = %s %s", it.PosterKey(), it.PosterThumb())
	}
	if it.TMDBKind() != tmdb.KindTV || it.SectionID != "2" {
		t.Errorf("FromMetadata() = %+v", it)
	}
}

func TestItem_PosterType(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want Type
	}{
		{"movie", Item{Type: Movie, RatingKey: "1"}, Movie},
		{"episode with show", Item{Type: Episode, RatingKey: "3", GrandparentRatingKey: "1"}, Show},
		{"orphan episode", Item{Type: Episode, RatingKey: "3"}, Episode},
		{"track with album", Item{Type: Track, RatingKey: "9", ParentRatingKey: "8"}, Album},
		{"season", Item{Type: Season, RatingKey: "2", ParentRatingKey: "1"}, Season},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.PosterType(); got != tt.want {
				t.Errorf("PosterType() = %q, want %q", got, tt.want)
			}
		})
	}
}
