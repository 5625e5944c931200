// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package media

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tomtom215/plexboard/internal/tmdb"
)

// Item is the neutral view of a recently added row or an activity session.
type Item struct {
	Type Type

	RatingKey            string
	ParentRatingKey      string
	GrandparentRatingKey string

	Title            string
	ParentTitle      string
	GrandparentTitle string
	OriginalTitle    string

	// MediaIndex is the episode or track number, ParentMediaIndex the season or disc.
	MediaIndex       int
	ParentMediaIndex int
	Year             int

	Thumb            string
	ParentThumb      string
	GrandparentThumb string

	AddedAt     time.Time
	LibraryName string
	SectionID   string
	Guids       []string

	// Session holds playback state for activity rows and is nil otherwise.
	Session *Session
}

// Session is the playback half of an activity row.
type Session struct {
	SessionKey        string
	User              string
	FriendlyName      string
	UserThumb         string
	Player            string
	Platform          string
	Product           string
	State             string
	ViewOffsetMS      int64
	DurationMS        int64
	ProgressPercent   int
	TranscodeDecision string
	QualityProfile    string
	BandwidthKbps     int64
	Live              bool
	Download          bool
}

// DisplayTitle is the headline for the item.
func (it Item) DisplayTitle() string {
	switch it.Type {
	case Episode:
		return firstNonEmpty(it.GrandparentTitle, it.Title)
	case Season:
		return firstNonEmpty(it.ParentTitle, it.Title)
	case Track:
		if it.GrandparentTitle != "" {
			return it.GrandparentTitle + " - " + it.Title
		}
		return it.Title
	default:
		return it.Title
	}
}

// Subtitle is the secondary line, empty when the type has none.
func (it Item) Subtitle() string {
	switch it.Type {
	case Episode:
		if it.ParentMediaIndex > 0 || it.MediaIndex > 0 {
			code := fmt.Sprintf("S%02dE%02d", it.ParentMediaIndex, it.MediaIndex)
			if it.Title == "" {
				return code
			}
			return code + " · " + it.Title
		}
		return it.Title
	case Season:
		return it.Title
	case Album, Track:
		return it.ParentTitle
	default:
		return ""
	}
}

// PosterThumb is the Plex thumb path whose artwork represents the item.
func (it Item) PosterThumb() string {
	switch it.Type {
	case Episode:
		return firstNonEmpty(it.GrandparentThumb, it.ParentThumb, it.Thumb)
	case Season:
		return firstNonEmpty(it.Thumb, it.ParentThumb)
	case Track:
		return firstNonEmpty(it.ParentThumb, it.GrandparentThumb, it.Thumb)
	default:
		return it.Thumb
	}
}

// PosterKey is the rating key that owns PosterThumb. Poster caching is keyed
// on it so every episode of a show shares one cached poster.
func (it Item) PosterKey() string {
	switch it.Type {
	case Episode:
		return firstNonEmpty(it.GrandparentRatingKey, it.ParentRatingKey, it.RatingKey)
	case Track:
		return firstNonEmpty(it.ParentRatingKey, it.GrandparentRatingKey, it.RatingKey)
	default:
		return it.RatingKey
	}
}

// PosterType is the media type of the item that owns PosterKey.
func (it Item) PosterType() Type {
	switch {
	case it.Type == Episode && it.PosterKey() != it.RatingKey:
		return Show
	case it.Type == Track && it.PosterKey() != it.RatingKey:
		return Album
	default:
		return it.Type
	}
}

// TMDBKind is the TMDB namespace to look the item up in.
func (it Item) TMDBKind() tmdb.Kind {
	return KindFor(it.Type)
}

// KindFor maps a media type to its TMDB namespace.
func KindFor(t Type) tmdb.Kind {
	switch {
	case t == Movie:
		return tmdb.KindMovie
	case t.IsTV():
		return tmdb.KindTV
	default:
		return tmdb.KindNone
	}
}

// Vars returns the template variables for the item. Zero numbers are
// omitted so that ${year:-n/a} style fallbacks apply.
func (it Item) Vars() map[string]string {
	v := map[string]string{
		"media_type":             it.Type.String(),
		"rating_key":             it.RatingKey,
		"parent_rating_key":      it.ParentRatingKey,
		"grandparent_rating_key": it.GrandparentRatingKey,
		"title":                  it.Title,
		"parent_title":           it.ParentTitle,
		"grandparent_title":      it.GrandparentTitle,
		"original_title":         it.OriginalTitle,
		"display_title":          it.DisplayTitle(),
		"subtitle":               it.Subtitle(),
		"library_name":           it.LibraryName,
		"section_id":             it.SectionID,
	}
	setInt(v, "year", int64(it.Year))
	setInt(v, "media_index", int64(it.MediaIndex))
	setInt(v, "parent_media_index", int64(it.ParentMediaIndex))
	if !it.AddedAt.IsZero() {
		v["added_at"] = strconv.FormatInt(it.AddedAt.Unix(), 10)
	}

	if s := it.Session; s != nil {
		v["user"] = s.User
		v["friendly_name"] = firstNonEmpty(s.FriendlyName, s.User)
		v["player"] = s.Player
		v["platform"] = s.Platform
		v["product"] = s.Product
		v["state"] = s.State
		v["transcode_decision"] = s.TranscodeDecision
		v["quality_profile"] = s.QualityProfile
		setInt(v, "view_offset", s.ViewOffsetMS)
		setInt(v, "duration", s.DurationMS)
		setInt(v, "progress_percent", int64(s.ProgressPercent))
		setInt(v, "bandwidth", s.BandwidthKbps)
		if s.DurationMS > s.ViewOffsetMS {
			setInt(v, "remaining", s.DurationMS-s.ViewOffsetMS)
		}
	}
	return v
}

func setInt(v map[string]string, key string, n int64) {
	if n != 0 {
		v[key] = strconv.FormatInt(n, 10)
	}
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}
