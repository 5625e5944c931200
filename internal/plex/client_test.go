// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package plex

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/plexboard/internal/config"
	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/upstream"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

func newTestServer(t *testing.T) (*httptest.Server, *atomic.Value) {
	t.Helper()
	var lastQuery atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/identity", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Plex-Token") != "plex-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"MediaContainer":{"size":0,"claimed":true,"machineIdentifier":"abc123","version":"1.40.0"}}`))
	})
	mux.HandleFunc("/photo/:/transcode", func(w http.ResponseWriter, r *http.Request) {
		lastQuery.Store(r.URL.Query())
		if r.Header.Get("X-Plex-Token") != "plex-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("url") == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("plexjpeg"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &lastQuery
}

func newTestClient(serverURL, token string) *Client {
	c := NewClient(&config.PlexConfig{URL: serverURL, Token: token, Timeout: 5 * time.Second})
	c.retry = upstream.RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond}
	return c
}

func TestClient_Identity(t *testing.T) {
	server, _ := newTestServer(t)

	id, err := newTestClient(server.URL, "plex-token").Identity(context.Background())
	if err != nil {
		t.Fatalf("Identity() error = %v", err)
	}
	if id.MachineIdentifier != "abc123" || id.Version != "1.40.0" || !id.Claimed {
		t.Errorf("Identity() = %+v", id)
	}

	_, err = newTestClient(server.URL, "wrong").Identity(context.Background())
	var se *upstream.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected StatusError 401, got %v", err)
	}
}

func TestClient_FetchImage(t *testing.T) {
	server, lastQuery := newTestServer(t)
	client := newTestClient(server.URL, "plex-token")

	img, err := client.FetchImage(context.Background(), "/library/metadata/7/thumb/99", 300, 450)
	if err != nil {
		t.Fatalf("FetchImage() error = %v", err)
	}
	if string(img.Data) != "plexjpeg" || img.ContentType != "image/jpeg" {
		t.Errorf("FetchImage() = %q %q", img.Data, img.ContentType)
	}

	q := lastQuery.Load().(url.Values)
	want := map[string]string{
		"url":     "/library/metadata/7/thumb/99",
		"width":   "300",
		"height":  "450",
		"minSize": "1",
		"upscale": "1",
	}
	for k, v := range want {
		if q.Get(k) != v {
			t.Errorf("query %s = %q, want %q", k, q.Get(k), v)
		}
	}
}

func TestClient_FetchImage_Errors(t *testing.T) {
	server, _ := newTestServer(t)
	client := newTestClient(server.URL, "plex-token")

	tests := []struct {
		name string
		path string
		want error
	}{
		{"empty path", "", upstream.ErrNotFound},
		{"missing", "/missing", upstream.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := client.FetchImage(context.Background(), tt.path, 100, 150); !errors.Is(err, tt.want) {
				t.Errorf("FetchImage(%q) error = %v, want %v", tt.path, err, tt.want)
			}
		})
	}
}

func TestClient_FetchImage_NoSizeOmitsTranscodeParams(t *testing.T) {
	server, lastQuery := newTestServer(t)

	if _, err := newTestClient(server.URL, "plex-token").FetchImage(context.Background(), "/thumb", 0, 0); err != nil {
		t.Fatalf("FetchImage() error = %v", err)
	}
	q := lastQuery.Load().(url.Values)
	if q.Has("width") || q.Has("minSize") {
		t.Errorf("query = %v, want only url", q)
	}
}

type failingClient struct{ calls int }

func (f *failingClient) Identity(ctx context.Context) (*Identity, error) {
	f.calls++
	return nil, errors.New("dial tcp: connection refused")
}

func (f *failingClient) FetchImage(ctx context.Context, path string, width, height int) (*upstream.Image, error) {
	f.calls++
	return nil, &upstream.StatusError{Service: "plex", StatusCode: http.StatusNotFound}
}

func TestCircuitBreakerClient_NotFoundDoesNotTrip(t *testing.T) {
	cbc := WrapWithCircuitBreaker(&failingClient{})
	for i := 0; i < 20; i++ {
		_, _ = cbc.FetchImage(context.Background(), "/x", 1, 1)
	}
	if cbc.BreakerState() != "closed" {
		t.Fatalf("state after 404s = %s, want closed", cbc.BreakerState())
	}
}

func TestCircuitBreakerClient_OpensOnConnectionErrors(t *testing.T) {
	stub := &failingClient{}
	cbc := WrapWithCircuitBreaker(stub)
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		_, _ = cbc.Identity(ctx)
	}
	if cbc.BreakerState() != "open" {
		t.Fatalf("state after connection errors = %s, want open", cbc.BreakerState())
	}
	before := stub.calls
	if _, err := cbc.Identity(ctx); !upstream.IsUnavailable(err) {
		t.Errorf("expected open-circuit rejection, got %v", err)
	}
	if stub.calls != before {
		t.Error("open breaker must not reach the client")
	}
}
