// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/plexboard/internal/api"
	"github.com/tomtom215/plexboard/internal/cache"
	"github.com/tomtom215/plexboard/internal/config"
	"github.com/tomtom215/plexboard/internal/events"
	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/metrics"
	"github.com/tomtom215/plexboard/internal/plex"
	"github.com/tomtom215/plexboard/internal/poster"
	"github.com/tomtom215/plexboard/internal/store"
	"github.com/tomtom215/plexboard/internal/supervisor"
	"github.com/tomtom215/plexboard/internal/supervisor/services"
	"github.com/tomtom215/plexboard/internal/tautulli"
	"github.com/tomtom215/plexboard/internal/tmdb"
	ws "github.com/tomtom215/plexboard/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// upstreams holds the configured clients. Unconfigured ones stay nil
// interfaces so handlers can test them against nil.
type upstreams struct {
	tautulli tautulli.ClientInterface
	plex     plex.ClientInterface
	tmdb     tmdb.ClientInterface
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Caller:     cfg.Logging.Caller,
		Timestamp:  true,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		BufferSize: cfg.Logging.BufferSize,
	})

	api.Version = version
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
	logging.Info().
		Str("version", version).
		Bool("tautulli", cfg.TautulliEnabled()).
		Bool("plex", cfg.PlexEnabled()).
		Bool("tmdb", cfg.TMDBEnabled()).
		Str("data_dir", cfg.Storage.DataDir).
		Msg("Starting Plexboard")

	err = run(cfg)
	if err != nil {
		logging.Error().Err(err).Msg("Plexboard stopped with an error")
	} else {
		logging.Info().Msg("Application stopped gracefully")
	}
	if cerr := logging.Close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "close log file: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus(events.Config{})
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing event bus")
		}
	}()

	st, err := store.Open(cfg.FormatsPath(), bus)
	if err != nil {
		return fmt.Errorf("open formats.json: %w", err)
	}

	clients := newUpstreams(ctx, cfg)

	disk, err := poster.OpenDisk(poster.DiskConfig{Path: cfg.PosterDir()})
	if err != nil {
		return fmt.Errorf("open poster cache: %w", err)
	}
	defer func() {
		if err := disk.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing poster cache")
		}
	}()

	posters := poster.NewService(poster.ConfigFrom(&cfg.Posters), poster.Deps{
		Memory:    poster.NewMemory(cfg.Posters.MemoryEntries),
		Disk:      disk,
		Sources:   posterSources(clients),
		Metadata:  clients.tautulli,
		Publisher: bus,
	})

	apiCache := cache.New("api", cfg.API.CacheTTL)
	defer apiCache.Close()

	hub := ws.NewHub()
	handler := api.NewHandler(api.Deps{
		Config:    cfg,
		Store:     st,
		Posters:   posters,
		Cache:     apiCache,
		Logs:      logging.RecentBuffer(),
		Tautulli:  clients.tautulli,
		Plex:      clients.plex,
		TMDB:      clients.tmdb,
		Hub:       hub,
		Publisher: bus,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())

	// Data layer
	tree.Add(supervisor.LayerData, services.NewTickerService("poster-gc", cfg.Posters.GCInterval, func(ctx context.Context) {
		if err := posters.Maintain(); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Poster cache maintenance failed")
		}
	}))
	tree.Add(supervisor.LayerData, services.NewWatchService("formats-watcher", func() (services.Unwatcher, error) {
		return config.WatchFile(st.Path(), func() {
			changed, err := st.Reload(ctx)
			if err != nil {
				logging.Warn().Err(err).Str("path", st.Path()).Msg("Ignoring invalid formats.json edit")
				return
			}
			if changed {
				logging.Info().Str("path", st.Path()).Msg("formats.json reloaded from disk")
			}
		})
	}))
	if path := config.FindConfigFile(); path != "" {
		tree.Add(supervisor.LayerData, services.NewWatchService("config-watcher", func() (services.Unwatcher, error) {
			return config.WatchConfigFile(path, func(next *config.Config) {
				logging.SetLevelString(next.Logging.Level)
				logging.Info().Str("level", next.Logging.Level).Msg("Log level updated")
			})
		}))
	}

	// Messaging layer
	tree.Add(supervisor.LayerMessaging, services.NewRunnerService("websocket-hub", hub.RunWithContext))
	tree.Add(supervisor.LayerMessaging, services.NewRunnerService("ws-event-bridge", func(ctx context.Context) error {
		return bus.Run(ctx, hub.BroadcastEvent)
	}))
	tree.Add(supervisor.LayerMessaging, services.NewRunnerService("cache-event-bridge", func(ctx context.Context) error {
		return bus.Run(ctx, apiCache.HandleEvent)
	}))

	// API layer
	tree.Add(supervisor.LayerAPI, services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().
		Str("addr", server.Addr).
		Strs("data", tree.Services(supervisor.LayerData)).
		Strs("messaging", tree.Services(supervisor.LayerMessaging)).
		Msg("Starting supervisor tree")

	errCh := tree.ServeBackground(ctx)
	var serveErr error
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
			serveErr = err
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return serveErr
}

// newUpstreams builds breaker-wrapped clients for every configured upstream.
func newUpstreams(ctx context.Context, cfg *config.Config) upstreams {
	var u upstreams

	if cfg.TautulliEnabled() {
		c := tautulli.NewClient(&cfg.Tautulli)
		c.SetMaxImageBytes(cfg.Posters.MaxBytes)
		u.tautulli = tautulli.WrapWithCircuitBreaker(c)

		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := u.tautulli.Ping(pingCtx); err != nil {
			logging.Warn().Err(err).Msg("Tautulli is not reachable yet")
		} else {
			logging.Info().Str("url", cfg.Tautulli.URL).Msg("Connected to Tautulli")
		}
		cancel()
	} else {
		logging.Warn().Msg("Tautulli is not configured; dashboard data endpoints will answer 503")
	}

	if cfg.PlexEnabled() {
		c := plex.NewClient(&cfg.Plex)
		c.SetMaxImageBytes(cfg.Posters.MaxBytes)
		u.plex = plex.WrapWithCircuitBreaker(c)
	}

	if cfg.TMDBEnabled() {
		c := tmdb.NewClient(&cfg.TMDB)
		c.SetMaxImageBytes(cfg.Posters.MaxBytes)
		u.tmdb = tmdb.WrapWithCircuitBreaker(c)
	}
	return u
}

// posterSources orders the fallback chain: TMDB, then Tautulli's image
// proxy, then Plex directly.
func posterSources(u upstreams) []poster.Source {
	var sources []poster.Source
	if u.tmdb != nil {
		sources = append(sources, &poster.TMDBSource{Client: u.tmdb})
	}
	if u.tautulli != nil {
		sources = append(sources, &poster.TautulliSource{Client: u.tautulli})
	}
	if u.plex != nil {
		sources = append(sources, &poster.PlexSource{Client: u.plex})
	}
	return sources
}
