// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package poster

import (
	"context"

	"github.com/tomtom215/plexboard/internal/media"
	"github.com/tomtom215/plexboard/internal/plex"
	"github.com/tomtom215/plexboard/internal/tmdb"
	"github.com/tomtom215/plexboard/internal/upstream"
)

// Target is everything the sources know about the poster being fetched.
type Target struct {
	Key    string
	Thumb  string
	Title  string
	Type   media.Type
	Ref    tmdb.Ref
	Width  int
	Height int

	// Unverified is set when Thumb or Title came from the caller because
	// the metadata lookup failed.
	Unverified bool
}

// Source is one upstream tier of the fallback chain. Fetch returns
// upstream.ErrNotFound when the tier has nothing for the target, which
// moves the chain on without counting as an error.
type Source interface {
	Name() string
	Fetch(ctx context.Context, t *Target) (*upstream.Image, error)
}

// ImageProxy is the Tautulli pms_image_proxy call.
type ImageProxy interface {
	FetchImage(ctx context.Context, img string, width, height int) (*upstream.Image, error)
}

// TMDBSource looks the title up on TMDB by its external ids.
type TMDBSource struct {
	Client tmdb.ClientInterface
}

// Name implements Source.
func (s *TMDBSource) Name() string { return SourceTMDB }

// Fetch implements Source.
func (s *TMDBSource) Fetch(ctx context.Context, t *Target) (*upstream.Image, error) {
	if t.Ref.Empty() || t.Ref.Kind == tmdb.KindNone {
		return nil, upstream.ErrNotFound
	}
	imageURL, err := s.Client.PosterURL(ctx, t.Ref)
	if err != nil {
		return nil, err
	}
	return s.Client.FetchImage(ctx, imageURL)
}

// TautulliSource fetches the Plex thumb through Tautulli.
type TautulliSource struct {
	Client ImageProxy
}

// Name implements Source.
func (s *TautulliSource) Name() string { return SourceTautulli }

// Fetch implements Source.
func (s *TautulliSource) Fetch(ctx context.Context, t *Target) (*upstream.Image, error) {
	if t.Thumb == "" {
		return nil, upstream.ErrNotFound
	}
	return s.Client.FetchImage(ctx, t.Thumb, t.Width, t.Height)
}

// PlexSource fetches the thumb from Plex directly.
type PlexSource struct {
	Client plex.ClientInterface
}

// Name implements Source.
func (s *PlexSource) Name() string { return SourcePlex }

// Fetch implements Source.
func (s *PlexSource) Fetch(ctx context.Context, t *Target) (*upstream.Image, error) {
	if t.Thumb == "" {
		return nil, upstream.ErrNotFound
	}
	return s.Client.FetchImage(ctx, t.Thumb, t.Width, t.Height)
}

var (
	_ Source = (*TMDBSource)(nil)
	_ Source = (*TautulliSource)(nil)
	_ Source = (*PlexSource)(nil)
)
