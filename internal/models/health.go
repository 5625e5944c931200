// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package models

// HealthStatus is the payload of /api/health.
// Status is "healthy" when every configured dependency answers, otherwise
// "degraded".
type HealthStatus struct {
	Status     string                      `json:"status"`
	Version    string                      `json:"version"`
	Uptime     float64                     `json:"uptime_seconds"`
	Components map[string]ComponentHealth `json:"components"`
	WSClients  int                         `json:"websocket_clients"`
}

// ComponentHealth describes one dependency. Configured is false for
// optional upstreams that are switched off; such components never degrade
// the overall status.
type ComponentHealth struct {
	Configured bool   `json:"configured"`
	Healthy    bool   `json:"healthy"`
	Breaker    string `json:"circuit_breaker,omitempty"`
	Version    string `json:"version,omitempty"`
	Detail     string `json:"detail,omitempty"`
}
