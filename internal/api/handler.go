// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package api

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/plexboard/internal/cache"
	"github.com/tomtom215/plexboard/internal/config"
	"github.com/tomtom215/plexboard/internal/events"
	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/plex"
	"github.com/tomtom215/plexboard/internal/poster"
	"github.com/tomtom215/plexboard/internal/store"
	"github.com/tomtom215/plexboard/internal/tautulli"
	"github.com/tomtom215/plexboard/internal/tmdb"
	ws "github.com/tomtom215/plexboard/internal/websocket"
)

// Version is reported by /api/health. Set at build time with -ldflags.
var Version = "dev"

// Deps are the collaborators of a Handler. Tautulli, Plex, TMDB, Hub and
// Publisher may be nil when the feature is not configured.
type Deps struct {
	Config    *config.Config
	Store     *store.Store
	Posters   *poster.Service
	Cache     *cache.Cache
	Logs      *logging.Buffer
	Tautulli  tautulli.ClientInterface
	Plex      plex.ClientInterface
	TMDB      tmdb.ClientInterface
	Hub       *ws.Hub
	Publisher events.Publisher
}

// Handler serves every /api endpoint.
type Handler struct {
	cfg       *config.Config
	store     *store.Store
	posters   *poster.Service
	cache     *cache.Cache
	logs      *logging.Buffer
	client    tautulli.ClientInterface
	plex      plex.ClientInterface
	tmdb      tmdb.ClientInterface
	hub       *ws.Hub
	upgrader  *websocket.Upgrader
	publisher events.Publisher
	startTime time.Time
}

// NewHandler creates a Handler. A nil Cache gets a fresh one with the
// configured TTL.
func NewHandler(deps Deps) *Handler {
	h := &Handler{
		cfg:       deps.Config,
		store:     deps.Store,
		posters:   deps.Posters,
		cache:     deps.Cache,
		logs:      deps.Logs,
		client:    deps.Tautulli,
		plex:      deps.Plex,
		tmdb:      deps.TMDB,
		hub:       deps.Hub,
		publisher: deps.Publisher,
		startTime: time.Now(),
	}
	if h.cache == nil {
		h.cache = cache.New("api", h.cfg.API.CacheTTL)
	}
	if h.logs == nil {
		h.logs = logging.RecentBuffer()
	}
	h.upgrader = ws.NewUpgrader(h.cfg.Security.CORSOrigins)
	return h
}

// Cache returns the API response cache so the event bridge can clear it.
func (h *Handler) Cache() *cache.Cache { return h.cache }

func (h *Handler) publish(ctx context.Context, ev events.Event) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, ev); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("type", ev.Type).Msg("Failed to publish event")
	}
}
