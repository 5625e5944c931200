// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package plex

import (
	"context"

	"github.com/tomtom215/plexboard/internal/config"
	"github.com/tomtom215/plexboard/internal/upstream"
)

// BreakerName labels the Plex breaker in metrics and health output.
const BreakerName = "plex-api"

// CircuitBreakerClient wraps a ClientInterface with a circuit breaker.
type CircuitBreakerClient struct {
	client ClientInterface
	cb     *upstream.Breaker
}

// NewCircuitBreakerClient creates a Plex client with circuit breaker.
func NewCircuitBreakerClient(cfg *config.PlexConfig) *CircuitBreakerClient {
	return WrapWithCircuitBreaker(NewClient(cfg))
}

// WrapWithCircuitBreaker adds a breaker to client. 404s and other 4xx
// answers do not count as failures.
func WrapWithCircuitBreaker(client ClientInterface) *CircuitBreakerClient {
	settings := upstream.DefaultBreakerSettings
	settings.IsSuccessful = upstream.ClientErrorIsSuccess
	return &CircuitBreakerClient{
		client: client,
		cb:     upstream.NewBreaker(BreakerName, settings),
	}
}

// BreakerState returns "closed", "half-open" or "open".
func (cbc *CircuitBreakerClient) BreakerState() string { return cbc.cb.State() }

// Identity returns the server identity with circuit breaker protection
func (cbc *CircuitBreakerClient) Identity(ctx context.Context) (*Identity, error) {
	return upstream.Cast[Identity](cbc.cb.Execute(func() (interface{}, error) {
		return cbc.client.Identity(ctx)
	}))
}

// FetchImage transcodes an image with circuit breaker protection
func (cbc *CircuitBreakerClient) FetchImage(ctx context.Context, path string, width, height int) (*upstream.Image, error) {
	return upstream.Cast[upstream.Image](cbc.cb.Execute(func() (interface{}, error) {
		return cbc.client.FetchImage(ctx, path, width, height)
	}))
}
