// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tomtom215/plexboard/internal/metrics"
	"github.com/tomtom215/plexboard/internal/models"
)

const healthCheckTimeout = 5 * time.Second

// breakerStater is implemented by the circuit breaker client wrappers.
type breakerStater interface {
	BreakerState() string
}

func breakerState(c interface{}) string {
	if b, ok := c.(breakerStater); ok {
		return b.BreakerState()
	}
	return ""
}

// HealthLive answers 200 while the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]string{"status": "alive"}, meta{})
}

// HealthReady answers 200 once the document store is loaded, 503 otherwise.
// Upstreams are not consulted: the dashboard still serves cached data and
// placeholders without them.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.store == nil || h.posters == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Not ready", nil)
		return
	}
	respondSuccess(w, map[string]string{"status": "ready"}, meta{})
}

// Health reports the state of the store, the poster disk cache and every
// configured upstream. Upstream checks run concurrently.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		components = map[string]models.ComponentHealth{}
	)
	// Check goroutines and this goroutine both write components.
	set := func(name string, c models.ComponentHealth) {
		mu.Lock()
		components[name] = c
		mu.Unlock()
	}

	set("store", models.ComponentHealth{Configured: true, Healthy: h.store != nil})

	disk := models.ComponentHealth{}
	if h.posters != nil && h.posters.Disk() != nil {
		stats := h.posters.Disk().Stats()
		disk = models.ComponentHealth{Configured: true, Healthy: true, Detail: formatDiskDetail(stats.Entries, stats.Bytes)}
	}
	set("poster_disk", disk)

	if h.client != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := models.ComponentHealth{Configured: true, Breaker: breakerState(h.client)}
			if err := h.client.Ping(ctx); err != nil {
				c.Detail = err.Error()
			} else {
				c.Healthy = true
			}
			set("tautulli", c)
		}()
	} else {
		set("tautulli", models.ComponentHealth{})
	}

	if h.plex != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := models.ComponentHealth{Configured: true, Breaker: breakerState(h.plex)}
			id, err := h.plex.Identity(ctx)
			if err != nil {
				c.Detail = err.Error()
			} else {
				c.Healthy = true
				c.Version = id.Version
			}
			set("plex", c)
		}()
	} else {
		set("plex", models.ComponentHealth{})
	}

	tmdbHealth := models.ComponentHealth{}
	if h.tmdb != nil {
		// TMDB has no cheap health call; the breaker state stands in for it.
		state := breakerState(h.tmdb)
		tmdbHealth = models.ComponentHealth{Configured: true, Healthy: state != "open", Breaker: state}
	}
	set("tmdb", tmdbHealth)

	wg.Wait()

	status := "healthy"
	for _, c := range components {
		if c.Configured && !c.Healthy {
			status = "degraded"
		}
	}

	metrics.RecordUptime(h.startTime)

	clients := 0
	if h.hub != nil {
		clients = h.hub.GetClientCount()
	}

	respondSuccess(w, models.HealthStatus{
		Status:     status,
		Version:    Version,
		Uptime:     time.Since(h.startTime).Seconds(),
		Components: components,
		WSClients:  clients,
	}, meta{})
}

func formatDiskDetail(entries int, bytes int64) string {
	return humanize.Comma(int64(entries)) + " posters, " + humanize.Bytes(uint64(bytes))
}
