// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package services

import (
	"context"
	"time"

	"github.com/tomtom215/plexboard/internal/logging"
)

// TickerService calls task every interval until the context ends. A task
// panic is left to the supervisor, which restarts the service.
type TickerService struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context)
}

// NewTickerService creates a periodic service. A non-positive interval
// means one minute.
func NewTickerService(name string, interval time.Duration, task func(ctx context.Context)) *TickerService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &TickerService{name: name, interval: interval, task: task}
}

// Serve implements suture.Service.
func (s *TickerService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logging.Debug().Str("service", s.name).Dur("interval", s.interval).Msg("Periodic task started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.task(logging.ContextWithTask(ctx, s.name))
		}
	}
}

func (s *TickerService) String() string {
	return s.name
}
