// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/plexboard/internal/config"
	"github.com/tomtom215/plexboard/internal/upstream"
)

// TMDB allows roughly 40 requests per second per IP.
const (
	DefaultRPS   = 20
	DefaultBurst = 20
)

// ClientInterface is the TMDB surface the poster chain uses.
type ClientInterface interface {
	PosterURL(ctx context.Context, ref Ref) (string, error)
	FetchImage(ctx context.Context, imageURL string) (*upstream.Image, error)
}

// Client is a TMDB API v3 client.
type Client struct {
	baseURL       string
	imageBaseURL  string
	posterSize    string
	apiKey        string
	language      string
	httpClient    *http.Client
	limiter       *rate.Limiter
	retry         upstream.RetryPolicy
	maxImageBytes int64
}

// NewClient creates a TMDB client.
func NewClient(cfg *config.TMDBConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	posterSize := cfg.PosterSize
	if posterSize == "" {
		posterSize = "w500"
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL:  strings.TrimRight(cfg.ImageBaseURL, "/"),
		posterSize:    posterSize,
		apiKey:        cfg.APIKey,
		language:      cfg.Language,
		httpClient:    &http.Client{Timeout: timeout},
		limiter:       rate.NewLimiter(rate.Limit(DefaultRPS), DefaultBurst),
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

type posterResult struct {
	PosterPath string `json:"poster_path"`
}

type findResponse struct {
	MovieResults []posterResult `json:"movie_results"`
	TVResults    []posterResult `json:"tv_results"`
}

// PosterURL resolves ref to a full image URL. ErrNotFound is returned when
// the title is unknown or has no poster.
func (c *Client) PosterURL(ctx context.Context, ref Ref) (string, error) {
	if c.apiKey == "" {
		return "", upstream.ErrNotConfigured
	}

	var path string
	switch {
	case ref.TMDBID != "" && ref.Kind != KindNone:
		var res posterResult
		if err := c.getJSON(ctx, "/"+string(ref.Kind)+"/"+url.PathEscape(ref.TMDBID), nil, &res); err != nil {
			return "", err
		}
		path = res.PosterPath

	case ref.IMDbID != "" || ref.TVDBID != "":
		source, id := "imdb_id", ref.IMDbID
		if id == "" {
			source, id = "tvdb_id", ref.TVDBID
		}
		var res findResponse
		if err := c.getJSON(ctx, "/find/"+url.PathEscape(id), url.Values{"external_source": {source}}, &res); err != nil {
			return "", err
		}
		path = pickFound(ref.Kind, res)

	default:
		return "", upstream.ErrNotFound
	}

	if path == "" {
		return "", upstream.ErrNotFound
	}
	return c.imageBaseURL + "/" + c.posterSize + path, nil
}

// pickFound prefers results in the namespace the caller asked for.
func pickFound(kind Kind, res findResponse) string {
	first := func(results []posterResult) string {
		for _, r := range results {
			if r.PosterPath != "" {
				return r.PosterPath
			}
		}
		return ""
	}
	if kind == KindTV {
		if p := first(res.TVResults); p != "" {
			return p
		}
		return first(res.MovieResults)
	}
	if p := first(res.MovieResults); p != "" {
		return p
	}
	return first(res.TVResults)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	if c.language != "" {
		query.Set("language", c.language)
	}
	reqURL := c.baseURL + path + "?" + query.Encode()

	resp, err := c.get(ctx, reqURL, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &upstream.StatusError{Service: "tmdb", StatusCode: resp.StatusCode, Body: upstream.ReadBodyForError(resp.Body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}

// FetchImage downloads a poster from the TMDB image CDN.
func (c *Client) FetchImage(ctx context.Context, imageURL string) (*upstream.Image, error) {
	if imageURL == "" {
		return nil, upstream.ErrNotFound
	}
	resp, err := c.get(ctx, imageURL, "image/*")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return upstream.ReadImage(resp, c.maxImageBytes)
}

func (c *Client) get(ctx context.Context, reqURL, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return upstream.DoWithRetry(ctx, c.httpClient, c.retry, "tmdb", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", accept)
		return req, nil
	})
}
