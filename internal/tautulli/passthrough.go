// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package tautulli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/plexboard/internal/upstream"
)

// ErrCommandNotAllowed is returned for commands outside the allow list.
var ErrCommandNotAllowed = errors.New("tautulli: command not allowed")

// reservedParams are set by the client and never taken from callers.
var reservedParams = []string{"apikey", "cmd"}

// Call forwards cmd with params and returns the JSON body verbatim, including
// Tautulli-level errors ({"result":"error"}). Only transport failures and
// non-200 statuses are returned as errors.
func (c *Client) Call(ctx context.Context, cmd string, params url.Values) (json.RawMessage, error) {
	clean := url.Values{}
	for k, v := range params {
		clean[k] = v
	}
	for _, k := range reservedParams {
		clean.Del(k)
	}

	resp, err := c.get(ctx, cmd, clean)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &upstream.StatusError{
			Service:    "tautulli " + cmd,
			StatusCode: resp.StatusCode,
			Body:       upstream.ReadBodyForError(resp.Body),
		}
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tautulli %s returned invalid JSON: %w", cmd, err)
	}
	return raw, nil
}

// FetchImage loads img (a Plex thumb path such as /library/metadata/1/thumb/2)
// through Tautulli's pms_image_proxy, resized to width x height. No Tautulli
// fallback image is requested, so a missing poster surfaces as an error.
func (c *Client) FetchImage(ctx context.Context, img string, width, height int) (*upstream.Image, error) {
	if img == "" {
		return nil, upstream.ErrNotFound
	}
	params := url.Values{}
	params.Set("img", img)
	if width > 0 {
		params.Set("width", strconv.Itoa(width))
	}
	if height > 0 {
		params.Set("height", strconv.Itoa(height))
	}

	resp, err := c.get(ctx, "pms_image_proxy", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	image, err := upstream.ReadImage(resp, c.maxImageBytes)
	if err != nil {
		return nil, fmt.Errorf("pms_image_proxy %s: %w", img, err)
	}
	return image, nil
}

// CommandAllowed reports whether cmd matches an allow list entry. Entries
// ending in '*' match by prefix ("get_*"); everything else must match exactly.
// Matching is case-sensitive, as Tautulli commands are.
func CommandAllowed(cmd string, allowed []string) bool {
	if cmd == "" || !validCommand(cmd) {
		return false
	}
	for _, pattern := range allowed {
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
			if strings.HasPrefix(cmd, prefix) {
				return true
			}
			continue
		}
		if cmd == pattern {
			return true
		}
	}
	return false
}

// validCommand accepts Tautulli command names: lowercase letters, digits and '_'.
func validCommand(cmd string) bool {
	if len(cmd) > 64 {
		return false
	}
	for _, r := range cmd {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}
