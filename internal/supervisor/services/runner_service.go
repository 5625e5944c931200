// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package services

import "context"

// RunnerService supervises a blocking run function that already honors
// its context, such as Hub.RunWithContext or an event bridge built on
// events.Bus.Run.
type RunnerService struct {
	name string
	run  func(ctx context.Context) error
}

// NewRunnerService names run for the supervisor log.
func NewRunnerService(name string, run func(ctx context.Context) error) *RunnerService {
	return &RunnerService{name: name, run: run}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	return s.run(ctx)
}

func (s *RunnerService) String() string {
	return s.name
}
