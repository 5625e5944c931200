// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package upstream

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// DefaultMaxImageBytes caps image bodies when a client is not configured otherwise.
const DefaultMaxImageBytes int64 = 5 << 20

// Image is a fetched image body.
type Image struct {
	Data        []byte
	ContentType string
}

// ReadImage consumes resp and returns its body as an Image. It does not
// close the body.
func ReadImage(resp *http.Response, maxBytes int64) (*Image, error) {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{Service: "image", StatusCode: resp.StatusCode, Body: ReadBodyForError(resp.Body)}
	}

	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLarge, resp.ContentLength, maxBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: %q", ErrNotImage, contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: > %d", ErrTooLarge, maxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrNotImage)
	}

	return &Image{Data: data, ContentType: contentType}, nil
}
