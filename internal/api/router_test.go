// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/plexboard/internal/events"
	"github.com/tomtom215/plexboard/internal/middleware"
	"github.com/tomtom215/plexboard/internal/models"
	ws "github.com/tomtom215/plexboard/internal/websocket"
)

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/health/live", "/api/health/ready"} {
		w := env.do(t, http.MethodGet, path, nil)
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, w.Code)
		}
	}

	w := env.do(t, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, body %s", w.Code, w.Body.String())
	}
	var health models.HealthStatus
	decodeEnvelope(t, w, &health)
	if health.Status != "healthy" {
		t.Errorf("status = %q, components %+v", health.Status, health.Components)
	}
	if c := health.Components["tautulli"]; !c.Configured || !c.Healthy {
		t.Errorf("tautulli = %+v", c)
	}
	if c := health.Components["plex"]; c.Configured {
		t.Errorf("plex = %+v, want not configured", c)
	}
	if env.tautulli.count("ping") != 1 {
		t.Errorf("ping calls = %d", env.tautulli.count("ping"))
	}
}

func TestRouter_HealthConcurrent(t *testing.T) {
	env := newTestEnv(t)

	const requests = 20
	codes := make([]int, requests)
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = env.do(t, http.MethodGet, "/api/health", nil).Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		if code != http.StatusOK {
			t.Errorf("request %d status = %d", i, code)
		}
	}
	if got := env.tautulli.count("ping"); got != requests {
		t.Errorf("ping calls = %d, want %d", got, requests)
	}
}

func TestRouter_Errors(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/nope", nil)
	expectError(t, w, http.StatusNotFound, ErrCodeNotFound)

	w = env.do(t, http.MethodDelete, "/api/dashboard/activity", nil)
	expectError(t, w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed)
}

func TestRouter_CommonHeaders(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/health/live", nil, "X-Request-ID", "trace-123", "Origin", "http://localhost:5173")
	if got := w.Header().Get(middleware.RequestIDHeader); got != "trace-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestRouter_Metrics(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/health/live", nil)

	w := env.do(t, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/api/health/live") {
		t.Error("metrics do not carry the route pattern label")
	}
}

func TestRouter_WebSocketDisabled(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/ws", nil)
	expectError(t, w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable)
}

func TestRouter_WebSocket(t *testing.T) {
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.RunWithContext(ctx) }()

	env := newTestEnv(t, func(d *Deps) { d.Hub = hub })
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	header := http.Header{"Origin": []string{"http://localhost:5173"}}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/ws", header)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var hello ws.Message
	if err := conn.ReadJSON(&hello); err != nil || hello.Type != ws.MessageTypeHello {
		t.Fatalf("first message = %+v, %v", hello, err)
	}

	hub.BroadcastEvent(events.PosterInvalidated("100"))
	var msg struct {
		Type string       `json:"type"`
		Data events.Event `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != ws.MessageTypeEvent || msg.Data.Type != events.TypePosterInvalidated || msg.Data.Key != "100" {
		t.Errorf("message = %+v", msg)
	}
}
