// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package plex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/plexboard/internal/config"
	"github.com/tomtom215/plexboard/internal/upstream"
)

// ClientInterface is the Plex surface Plexboard uses.
type ClientInterface interface {
	Identity(ctx context.Context) (*Identity, error)
	FetchImage(ctx context.Context, path string, width, height int) (*upstream.Image, error)
}

// Identity is the body of GET /identity.
type Identity struct {
	MachineIdentifier string `json:"machineIdentifier"`
	Version           string `json:"version"`
	Claimed           bool   `json:"claimed"`
}

type identityResponse struct {
	MediaContainer Identity `json:"MediaContainer"`
}

// Client talks to a Plex Media Server.
type Client struct {
	baseURL       string
	token         string
	httpClient    *http.Client
	retry         upstream.RetryPolicy
	maxImageBytes int64
}

// NewClient creates a Plex client.
func NewClient(cfg *config.PlexConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:       cfg.URL,
		token:         cfg.Token,
		httpClient:    &http.Client{Timeout: timeout},
		retry:         upstream.DefaultRetryPolicy,
		maxImageBytes: upstream.DefaultMaxImageBytes,
	}
}

// SetMaxImageBytes caps FetchImage bodies.
func (c *Client) SetMaxImageBytes(n int64) {
	if n > 0 {
		c.maxImageBytes = n
	}
}

// requestConfig holds configuration for building HTTP requests
type requestConfig struct {
	path       string
	query      url.Values
	acceptJSON bool
}

// doRequest executes a GET against the server. Callers close the body.
func (c *Client) doRequest(ctx context.Context, cfg requestConfig) (*http.Response, error) {
	reqURL := c.baseURL + cfg.path
	if len(cfg.query) > 0 {
		reqURL += "?" + cfg.query.Encode()
	}
	return upstream.DoWithRetry(ctx, c.httpClient, c.retry, "plex", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Plex-Token", c.token)
		req.Header.Set("X-Plex-Product", "Plexboard")
		if cfg.acceptJSON {
			req.Header.Set("Accept", "application/json")
		}
		return req, nil
	})
}

// Identity returns the server's machine identifier and version.
func (c *Client) Identity(ctx context.Context) (*Identity, error) {
	resp, err := c.doRequest(ctx, requestConfig{path: "/identity", acceptJSON: true})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &upstream.StatusError{Service: "plex identity", StatusCode: resp.StatusCode, Body: upstream.ReadBodyForError(resp.Body)}
	}

	var body identityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	return &body.MediaContainer, nil
}

// FetchImage resizes path (a library thumb such as /library/metadata/1/thumb/2)
// through the photo transcoder.
func (c *Client) FetchImage(ctx context.Context, path string, width, height int) (*upstream.Image, error) {
	if path == "" {
		return nil, upstream.ErrNotFound
	}
	query := url.Values{}
	query.Set("url", path)
	if width > 0 && height > 0 {
		query.Set("width", strconv.Itoa(width))
		query.Set("height", strconv.Itoa(height))
		query.Set("minSize", "1")
		query.Set("upscale", "1")
	}

	resp, err := c.doRequest(ctx, requestConfig{path: "/photo/:/transcode", query: query})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	img, err := upstream.ReadImage(resp, c.maxImageBytes)
	if err != nil {
		return nil, fmt.Errorf("plex transcode %s: %w", path, err)
	}
	return img, nil
}
