// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound means the upstream has no such resource.
	ErrNotFound = errors.New("upstream: not found")
	// ErrTooLarge means the body exceeded the configured limit.
	ErrTooLarge = errors.New("upstream: image exceeds size limit")
	// ErrNotImage means the upstream answered with something other than an image.
	ErrNotImage = errors.New("upstream: response is not an image")
	// ErrNotConfigured means the client has no URL or credentials.
	ErrNotConfigured = errors.New("upstream: not configured")
)

// StatusError is a non-success HTTP answer from an upstream.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s request failed with status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed with status %d: %s", e.Service, e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsClientError reports whether err is a 4xx answer (or a not-found), which
// says nothing about upstream health.
func IsClientError(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 400 && se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// ClientErrorIsSuccess is a BreakerSettings.IsSuccessful that ignores 4xx answers.
func ClientErrorIsSuccess(err error) bool {
	return err == nil || IsClientError(err) || errors.Is(err, ErrNotImage) || errors.Is(err, ErrTooLarge)
}
