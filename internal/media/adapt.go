// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package media

import (
	"time"

	tmodels "github.com/tomtom215/plexboard/internal/models/tautulli"
)

// FromRecentlyAdded adapts a get_recently_added row.
func FromRecentlyAdded(r *tmodels.TautulliRecentlyAddedItem) Item {
	it := Item{
		Type:                 ParseType(r.MediaType),
		RatingKey:            r.RatingKey,
		ParentRatingKey:      r.ParentRatingKey,
		GrandparentRatingKey: r.GrandparentRatingKey,
		Title:                r.Title,
		ParentTitle:          r.ParentTitle,
		GrandparentTitle:     r.GrandparentTitle,
		OriginalTitle:        r.OriginalTitle,
		MediaIndex:           r.MediaIndex.Int(),
		ParentMediaIndex:     r.ParentMediaIndex.Int(),
		Year:                 r.Year.Int(),
		Thumb:                r.Thumb,
		ParentThumb:          r.ParentThumb,
		GrandparentThumb:     r.GrandparentThumb,
		LibraryName:          r.LibraryName,
		SectionID:            r.SectionID.String(),
		Guids:                r.Guids,
	}
	if r.AddedAt > 0 {
		it.AddedAt = time.Unix(int64(r.AddedAt), 0).UTC()
	}
	return it
}

// FromSession adapts a get_activity session.
func FromSession(s *tmodels.TautulliActivitySession) Item {
	return Item{
		Type:                 ParseType(s.MediaType),
		RatingKey:            s.RatingKey,
		ParentRatingKey:      s.ParentRatingKey,
		GrandparentRatingKey: s.GrandparentRatingKey,
		Title:                s.Title,
		ParentTitle:          s.ParentTitle,
		GrandparentTitle:     s.GrandparentTitle,
		MediaIndex:           s.MediaIndex.Int(),
		ParentMediaIndex:     s.ParentMediaIndex.Int(),
		Year:                 s.Year.Int(),
		Thumb:                s.Thumb,
		ParentThumb:          s.ParentThumb,
		GrandparentThumb:     s.GrandparentThumb,
		LibraryName:          s.LibraryName,
		SectionID:            s.SectionID.String(),
		Session: &Session{
			SessionKey:        s.SessionKey,
			User:              s.User,
			FriendlyName:      s.FriendlyName,
			UserThumb:         s.UserThumb,
			Player:            s.Player,
			Platform:          s.Platform,
			Product:           s.Product,
			State:             s.State,
			ViewOffsetMS:      int64(s.ViewOffset),
			DurationMS:        int64(s.Duration),
			ProgressPercent:   s.ProgressPercent.Int(),
			TranscodeDecision: s.TranscodeDecision,
			QualityProfile:    s.QualityProfile,
			BandwidthKbps:     int64(s.Bandwidth),
			Live:              s.Live != 0,
			Download:          s.Synced != 0,
		},
	}
}

// FromMetadata adapts a get_metadata record.
func FromMetadata(m *tmodels.TautulliMetadataData) Item {
	return Item{
		Type:                 ParseType(m.MediaType),
		RatingKey:            m.RatingKey,
		ParentRatingKey:      m.ParentRatingKey,
		GrandparentRatingKey: m.GrandparentRatingKey,
		Title:                m.Title,
		ParentTitle:          m.ParentTitle,
		GrandparentTitle:     m.GrandparentTitle,
		Year:                 m.Year.Int(),
		Thumb:                m.Thumb,
		ParentThumb:          m.ParentThumb,
		GrandparentThumb:     m.GrandparentThumb,
		LibraryName:          m.LibraryName,
		SectionID:            m.SectionID.String(),
		Guids:                m.Guids,
	}
}
