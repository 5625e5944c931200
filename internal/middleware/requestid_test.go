// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/plexboard/internal/logging"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when absent", "", false},
		{"reused when valid", "abc-123_DEF", true},
		{"replaced when it has spaces", "abc 123", false},
		{"replaced when it has newlines", "abc\nlevel=error", false},
		{"replaced when too long", strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured, correlation string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured = GetRequestID(r.Context())
				correlation = logging.CorrelationIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Header().Get(RequestIDHeader) != captured {
				t.Errorf("response header %q != context %q", rec.Header().Get(RequestIDHeader), captured)
			}
			if correlation == "" {
				t.Error("correlation ID not set")
			}
			if tt.keep {
				if captured != tt.incoming {
					t.Errorf("request ID = %q, want %q", captured, tt.incoming)
				}
				return
			}
			if _, err := uuid.Parse(captured); err != nil {
				t.Errorf("generated ID %q is not a UUID: %v", captured, err)
			}
		})
	}
}
