// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package tautulli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/plexboard/internal/config"
	tmodels "github.com/tomtom215/plexboard/internal/models/tautulli"
	"github.com/tomtom215/plexboard/internal/upstream"
)

// maxResponseSize bounds a decoded API response.
const maxResponseSize = 32 << 20

// ClientInterface is the Tautulli surface Plexboard uses. It is implemented by
// Client and CircuitBreakerClient, and by mocks in tests.
type ClientInterface interface {
	Ping(ctx context.Context) error
	GetRecentlyAdded(ctx context.Context, count, start int, mediaType string, sectionID int) (*tmodels.TautulliRecentlyAdded, error)
	GetActivity(ctx context.Context) (*tmodels.TautulliActivity, error)
	GetUsers(ctx context.Context) (*tmodels.TautulliUsers, error)
	GetLibraries(ctx context.Context) (*tmodels.TautulliLibraries, error)
	GetMetadata(ctx context.Context, ratingKey string) (*tmodels.TautulliMetadata, error)
	Call(ctx context.Context, cmd string, params url.Values) (json.RawMessage, error)
	FetchImage(ctx context.Context, img string, width, height int) (*upstream.Image, error)
}

// Client talks to the Tautulli API v2 at <url>/api/v2.
//
// Thread Safety: Safe for concurrent use.
type Client struct {
	baseURL       string
	apiKey        string
	client        *http.Client
	retry         upstream.RetryPolicy
	maxImageBytes int64
}

// NewClient creates a Tautulli client. Requests time out after cfg.Timeout
// (30s when unset) and HTTP 429 answers are retried with backoff.
func NewClient(cfg *config.TautulliConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:       cfg.URL,
		apiKey:        cfg.APIKey,
		client:        &http.Client{Timeout: timeout},
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

// envelope is the common {"response": {...}} wrapper.
type envelope struct {
	Response struct {
		Result  string  `json:"result"`
		Message *string `json:"message"`
	} `json:"response"`
}

func (c *Client) endpoint(cmd string, params url.Values) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("apikey", c.apiKey)
	q.Set("cmd", cmd)
	return fmt.Sprintf("%s/api/v2?%s", c.baseURL, q.Encode())
}

// get issues a GET for cmd and returns the response. Callers close the body.
func (c *Client) get(ctx context.Context, cmd string, params url.Values) (*http.Response, error) {
	reqURL := c.endpoint(cmd, params)
	resp, err := upstream.DoWithRetry(ctx, c.client, c.retry, "tautulli", func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to make %s request: %w", cmd, err)
	}
	return resp, nil
}

// readJSON performs cmd and returns the raw body after checking the HTTP
// status and the response.result field.
func (c *Client) readJSON(ctx context.Context, cmd string, params url.Values) ([]byte, error) {
	resp, err := c.get(ctx, cmd, params)
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

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", cmd, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", cmd, err)
	}
	if env.Response.Result != "success" {
		msg := "unknown error"
		if env.Response.Message != nil && *env.Response.Message != "" {
			msg = *env.Response.Message
		}
		return nil, fmt.Errorf("%s request failed: %s", cmd, msg)
	}
	return body, nil
}

// callTautulliAPI decodes the response of cmd into T.
func callTautulliAPI[T any](ctx context.Context, c *Client, cmd string, params url.Values) (*T, error) {
	body, err := c.readJSON(ctx, cmd, params)
	if err != nil {
		return nil, err
	}
	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", cmd, err)
	}
	return &result, nil
}

// Ping verifies connectivity and the API key with the arnold command.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.readJSON(ctx, "arnold", nil); err != nil {
		return fmt.Errorf("failed to ping Tautulli: %w", err)
	}
	return nil
}
