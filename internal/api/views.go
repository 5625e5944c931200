// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package api

import (
	"net/url"

	"github.com/tomtom215/plexboard/internal/format"
	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/media"
	"github.com/tomtom215/plexboard/internal/models"
	tmodels "github.com/tomtom215/plexboard/internal/models/tautulli"
)

// Format categories used when a section does not name one.
const (
	categoryRecentlyAdded = "recently_added"
	categoryActivity      = "activity"
)

// viewBuilder turns Tautulli rows into dashboard views with rendered text
// and poster URLs.
type viewBuilder struct {
	h        *Handler
	formats  format.Formats
	category string
}

func (h *Handler) views(category string) viewBuilder {
	var formats format.Formats
	if h.store != nil {
		formats = h.store.Formats()
	}
	return viewBuilder{h: h, formats: formats, category: category}
}

// item renders one media item.
func (vb viewBuilder) item(it media.Item) models.DashboardItem {
	return models.DashboardItem{
		RatingKey:   it.RatingKey,
		PosterKey:   it.PosterKey(),
		MediaType:   it.Type.String(),
		Title:       it.DisplayTitle(),
		Subtitle:    it.Subtitle(),
		Text:        vb.render(it),
		Year:        it.Year,
		LibraryName: it.LibraryName,
		SectionID:   it.SectionID,
		AddedAt:     it.AddedAt,
		PosterURL:   vb.h.posterURL(it),
	}
}

// render applies the configured template. A template that no longer
// compiles renders nothing rather than failing the whole section.
func (vb viewBuilder) render(it media.Item) string {
	tmpl, ok := vb.formats.Pick(vb.category, it.Type.String())
	if !ok {
		return it.DisplayTitle()
	}
	text, err := format.Render(tmpl, it.Vars())
	if err != nil {
		logging.Debug().Err(err).Str("category", vb.category).Str("media_type", it.Type.String()).Msg("Format template failed")
		return ""
	}
	return text
}

func (vb viewBuilder) recentlyAdded(res *tmodels.TautulliRecentlyAdded) models.RecentlyAddedView {
	rows := res.Response.Data.RecentlyAdded
	view := models.RecentlyAddedView{
		Total: res.Response.Data.RecordsTotal.Int(),
		Items: make([]models.DashboardItem, 0, len(rows)),
	}
	for i := range rows {
		view.Items = append(view.Items, vb.item(media.FromRecentlyAdded(&rows[i])))
	}
	return view
}

func (vb viewBuilder) activity(res *tmodels.TautulliActivity) models.ActivityView {
	data := res.Response.Data
	view := models.ActivityView{
		StreamCount:    data.StreamCount.Int(),
		DirectPlay:     data.StreamCountDirectPlay.Int(),
		DirectStream:   data.StreamCountDirectStream.Int(),
		Transcode:      data.StreamCountTranscode.Int(),
		TotalBandwidth: int64(data.TotalBandwidth),
		LANBandwidth:   int64(data.LANBandwidth),
		WANBandwidth:   int64(data.WANBandwidth),
		Sessions:       make([]models.SessionView, 0, len(data.Sessions)),
	}
	for i := range data.Sessions {
		view.Sessions = append(view.Sessions, vb.session(media.FromSession(&data.Sessions[i])))
	}
	return view
}

func (vb viewBuilder) session(it media.Item) models.SessionView {
	s := it.Session
	return models.SessionView{
		DashboardItem:     vb.item(it),
		SessionKey:        s.SessionKey,
		User:              firstNonEmpty(s.FriendlyName, s.User),
		UserThumb:         s.UserThumb,
		Player:            s.Player,
		Platform:          s.Platform,
		Product:           s.Product,
		State:             s.State,
		Progress:          progress(s),
		ViewOffsetMS:      s.ViewOffsetMS,
		DurationMS:        s.DurationMS,
		TranscodeDecision: s.TranscodeDecision,
		QualityProfile:    s.QualityProfile,
		BandwidthKbps:     s.BandwidthKbps,
		Download:          s.Download,
		Live:              s.Live,
	}
}

// progress is the playback position in percent. Tautulli's rounded
// progress_percent is used only when the offsets are missing.
func progress(s *media.Session) float64 {
	if s.DurationMS > 0 {
		p := float64(s.ViewOffsetMS) / float64(s.DurationMS) * 100
		if p > 100 {
			p = 100
		}
		return float64(int(p*10)) / 10
	}
	return float64(s.ProgressPercent)
}

func usersView(res *tmodels.TautulliUsers) []models.UserView {
	out := make([]models.UserView, 0, len(res.Response.Data))
	for _, u := range res.Response.Data {
		out = append(out, models.UserView{
			UserID:       int64(u.UserID),
			Username:     u.Username,
			FriendlyName: firstNonEmpty(u.FriendlyName, u.Username),
			Thumb:        u.UserThumb,
			IsActive:     u.IsActive != 0,
			IsHomeUser:   u.IsHomeUser != 0,
		})
	}
	return out
}

func librariesView(res *tmodels.TautulliLibraries) []models.LibraryView {
	out := make([]models.LibraryView, 0, len(res.Response.Data))
	for _, l := range res.Response.Data {
		out = append(out, models.LibraryView{
			SectionID:   l.SectionID.String(),
			SectionName: l.SectionName,
			SectionType: l.SectionType,
			Count:       int64(l.Count),
			ParentCount: int64(l.ParentCount),
			ChildCount:  int64(l.ChildCount),
			IsActive:    l.IsActive != 0,
		})
	}
	return out
}

// posterURL is the /api/posters URL of the item's artwork, prefixed with
// the public base URL. The query carries the hints the poster service
// would otherwise look up.
func (h *Handler) posterURL(it media.Item) string {
	key := it.PosterKey()
	if key == "" {
		return ""
	}
	q := url.Values{}
	if thumb := it.PosterThumb(); thumb != "" {
		q.Set("thumb", thumb)
	}
	if title := it.DisplayTitle(); title != "" {
		q.Set("title", title)
	}
	if t := it.PosterType(); t != media.Unknown {
		q.Set("media_type", t.String())
	}
	u := h.cfg.PublicURL("/api/posters/" + url.PathEscape(key))
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}
