// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package tmdb

import "testing"

func TestParseGUIDs(t *testing.T) {
	tests := []struct {
		name  string
		guids []string
		want  Ref
	}{
		{
			name:  "modern agent",
			guids: []string{"imdb://tt1160419", "tmdb://438631", "tvdb://12345"},
			want:  Ref{TMDBID: "438631", IMDbID: "tt1160419", TVDBID: "12345"},
		},
		{
			name:  "legacy movie agent",
			guids: []string{"com.plexapp.agents.imdb://tt0133093?lang=en"},
			want:  Ref{IMDbID: "tt0133093"},
		},
		{
			name:  "legacy tv agent with episode path",
			guids: []string{"com.plexapp.agents.thetvdb://81189/5/16?lang=en"},
			want:  Ref{TVDBID: "81189"},
		},
		{
			name:  "legacy themoviedb agent",
			guids: []string{"com.plexapp.agents.themoviedb://603?lang=en"},
			want:  Ref{TMDBID: "603"},
		},
		{
			name:  "first id wins",
			guids: []string{"tmdb://1", "tmdb://2"},
			want:  Ref{TMDBID: "1"},
		},
		{
			name:  "garbage ignored",
			guids: []string{"plex://movie/5d7768", "tmdb://abc", "imdb://123", "nonsense", "tvdb://"},
			want:  Ref{},
		},
		{
			name: "nil",
			want: Ref{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseGUIDs(tt.guids)
			if got != tt.want {
				t.Errorf("ParseGUIDs() = %+v, want %+v", got, tt.want)
			}
			if got.Empty() != (tt.want == Ref{}) {
				t.Errorf("Empty() = %v", got.Empty())
			}
		})
	}
}
