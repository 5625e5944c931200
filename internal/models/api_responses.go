// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package models

import (
	"time"
)

// APIResponse is the envelope used by all JSON endpoints.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": [...],
//	  "metadata": {"timestamp": "2026-01-02T12:00:00Z", "query_time_ms": 45}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "VALIDATION_ERROR", "message": "count must be 1 to 100"},
//	  "metadata": {"timestamp": "2026-01-02T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
// Cached is set when the payload came from the response cache, including
// stale entries served while Tautulli is failing.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
	Stale       bool      `json:"stale,omitempty"`
}

// APIError carries a machine-readable code and a human-readable message.
//
// Codes:
//   - BAD_REQUEST, VALIDATION_ERROR: invalid input
//   - NOT_FOUND, METHOD_NOT_ALLOWED
//   - SERVICE_UNAVAILABLE: an optional upstream is not configured
//   - TAUTULLI_ERROR, UPSTREAM_ERROR: upstream call failed
//   - INTERNAL_ERROR
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
