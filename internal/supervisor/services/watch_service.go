// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package services

import (
	"context"
	"fmt"

	"github.com/tomtom215/plexboard/internal/logging"
)

// Unwatcher stops a file watch. *file.File from koanf satisfies it.
type Unwatcher interface {
	Unwatch() error
}

// WatchFunc starts a file watch.
type WatchFunc func() (Unwatcher, error)

// WatchService keeps a file watch alive for the lifetime of the service.
// A failure to start the watch is returned so the supervisor retries it
// (for example while the file does not exist yet).
type WatchService struct {
	name  string
	watch WatchFunc
}

// NewWatchService creates a watch service.
func NewWatchService(name string, watch WatchFunc) *WatchService {
	return &WatchService{name: name, watch: watch}
}

// Serve implements suture.Service.
func (s *WatchService) Serve(ctx context.Context) error {
	w, err := s.watch()
	if err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	logging.Debug().Str("service", s.name).Msg("File watch started")

	<-ctx.Done()
	if err := w.Unwatch(); err != nil {
		logging.Warn().Err(err).Str("service", s.name).Msg("Failed to stop file watch")
	}
	return ctx.Err()
}

func (s *WatchService) String() string {
	return s.name
}
