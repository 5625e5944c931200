// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/plexboard/internal/logging"
)

const defaultDrainTimeout = 10 * time.Second

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService listens until its context ends, then drains in-flight
// requests for at most drainTimeout.
type HTTPServerService struct {
	server       HTTPServer
	drainTimeout time.Duration
}

// NewHTTPServerService wraps server. A non-positive timeout means 10s.
func NewHTTPServerService(server HTTPServer, drainTimeout time.Duration) *HTTPServerService {
	if drainTimeout <= 0 {
		drainTimeout = defaultDrainTimeout
	}
	return &HTTPServerService{server: server, drainTimeout: drainTimeout}
}

// Serve implements suture.Service. A listen failure is returned so the
// supervisor restarts the listener; a clean close is not an error.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	listenDone := make(chan error, 1)
	go func() {
		err := h.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		listenDone <- err
	}()

	select {
	case err := <-listenDone:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	if err := h.drain(); err != nil {
		return err
	}
	<-listenDone
	return ctx.Err()
}

// drain runs Shutdown on a fresh context since the serve context is gone.
func (h *HTTPServerService) drain() error {
	started := time.Now()
	drainCtx, cancel := context.WithTimeout(context.Background(), h.drainTimeout)
	defer cancel()

	if err := h.server.Shutdown(drainCtx); err != nil {
		logging.Warn().Err(err).Dur("timeout", h.drainTimeout).Msg("HTTP server did not drain in time")
		return fmt.Errorf("shutdown: %w", err)
	}
	logging.Info().Dur("took", time.Since(started)).Msg("HTTP server drained")
	return nil
}

func (h *HTTPServerService) String() string {
	return "http-server"
}
