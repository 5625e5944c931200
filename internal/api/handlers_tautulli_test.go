// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
)

func TestTautulliProxy(t *testing.T) {
	env := newTestEnv(t)
	body := `{"response":{"result":"success","message":null,"data":[{"stat_id":"top_movies"}]}}`
	env.tautulli.raw = json.RawMessage(body)

	w := env.do(t, http.MethodGet, "/api/tautulli/get_home_stats?time_range=30&stats_count=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if w.Body.String() != body {
		t.Errorf("body = %s, want upstream JSON verbatim", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := env.tautulli.lastParams.Get("time_range"); got != "30" {
		t.Errorf("forwarded time_range = %q", got)
	}
}

func TestTautulliProxy_Rejected(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		cmd  string
	}{
		{"not allow-listed", "delete_history"},
		{"prefix only", "get"},
		{"uppercase", "GET_ACTIVITY"},
		{"punctuation", "get_activity;rm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/tautulli/"+tt.cmd, nil)
			expectError(t, w, http.StatusForbidden, ErrCodeForbidden)
		})
	}
	if n := env.tautulli.count("delete_history"); n != 0 {
		t.Errorf("forbidden command reached Tautulli %d times", n)
	}
}

func TestTautulliProxy_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"transport failure", errors.New("dial tcp: connection refused"), http.StatusBadGateway, ErrCodeTautulli},
		{"breaker open", gobreaker.ErrOpenState, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.tautulli.setErr(tt.err)
			w := env.do(t, http.MethodGet, "/api/tautulli/arnold", nil)
			expectError(t, w, tt.status, tt.code)
		})
	}
}

func TestTautulliProxy_NotConfigured(t *testing.T) {
	env := newTestEnv(t, withoutTautulli())
	w := env.do(t, http.MethodGet, "/api/tautulli/get_activity", nil)
	expectError(t, w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable)
}
