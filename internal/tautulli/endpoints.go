// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package tautulli

import (
	"context"
	"net/url"
	"strconv"

	tmodels "github.com/tomtom215/plexboard/internal/models/tautulli"
)

// GetRecentlyAdded lists recently added items, newest first.
// mediaType and sectionID are optional filters (empty / 0).
func (c *Client) GetRecentlyAdded(ctx context.Context, count, start int, mediaType string, sectionID int) (*tmodels.TautulliRecentlyAdded, error) {
	params := url.Values{}
	params.Set("count", strconv.Itoa(count))
	if start > 0 {
		params.Set("start", strconv.Itoa(start))
	}
	if mediaType != "" {
		params.Set("media_type", mediaType)
	}
	if sectionID > 0 {
		params.Set("section_id", strconv.Itoa(sectionID))
	}
	return callTautulliAPI[tmodels.TautulliRecentlyAdded](ctx, c, "get_recently_added", params)
}

// GetActivity returns current streams and sync downloads.
func (c *Client) GetActivity(ctx context.Context) (*tmodels.TautulliActivity, error) {
	return callTautulliAPI[tmodels.TautulliActivity](ctx, c, "get_activity", nil)
}

// GetUsers lists all users.
func (c *Client) GetUsers(ctx context.Context) (*tmodels.TautulliUsers, error) {
	return callTautulliAPI[tmodels.TautulliUsers](ctx, c, "get_users", nil)
}

// GetLibraries lists all library sections.
func (c *Client) GetLibraries(ctx context.Context) (*tmodels.TautulliLibraries, error) {
	return callTautulliAPI[tmodels.TautulliLibraries](ctx, c, "get_libraries", nil)
}

// GetMetadata returns metadata, including external guids, for ratingKey.
func (c *Client) GetMetadata(ctx context.Context, ratingKey string) (*tmodels.TautulliMetadata, error) {
	params := url.Values{}
	params.Set("rating_key", ratingKey)
	return callTautulliAPI[tmodels.TautulliMetadata](ctx, c, "get_metadata", params)
}
