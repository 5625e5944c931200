// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/plexboard/internal/logging"
)

// maxErrorBodySize limits how much of an error response is read for diagnostics.
const maxErrorBodySize = 64 * 1024

// RetryPolicy controls HTTP 429 handling.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	// MaxDelay caps a server-supplied Retry-After. Zero means no cap.
	MaxDelay time.Duration
}

// DefaultRetryPolicy retries up to 5 times starting at 1s.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 5,
	BaseDelay:  time.Second,
	MaxDelay:   time.Minute,
}

// DoWithRetry executes requests built by newReq until the response is not
// HTTP 429 or the retries run out. newReq is called per attempt because a
// request body cannot be replayed.
func DoWithRetry(ctx context.Context, client *http.Client, policy RetryPolicy, service string, newReq func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := newReq(ctx)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s request failed: %w", service, err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		_ = resp.Body.Close()

		if attempt == policy.MaxRetries {
			break
		}

		delay := policy.BaseDelay * time.Duration(1<<uint(attempt))
		if ra := retryAfter(resp.Header.Get("Retry-After")); ra > 0 {
			delay = ra
		}
		if policy.MaxDelay > 0 && delay > policy.MaxDelay {
			delay = policy.MaxDelay
		}

		logging.Warn().
			Str("service", service).
			Dur("retry_delay", delay).
			Int("attempt", attempt+1).
			Int("max_retries", policy.MaxRetries).
			Msg("Upstream rate limited (HTTP 429), retrying")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("%s rate limit exceeded after %d retries (HTTP 429)", service, policy.MaxRetries)
}

// retryAfter parses the delay-seconds form of Retry-After (RFC 9110).
// HTTP-date values are ignored.
func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// ReadBodyForError reads up to 64KB of a response body for error messages.
func ReadBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	if len(body) == maxErrorBodySize {
		return string(body) + "\n... (truncated)"
	}
	return string(body)
}
