// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package tmdb

import (
	"context"

	"github.com/tomtom215/plexboard/internal/config"
	"github.com/tomtom215/plexboard/internal/upstream"
)

// BreakerName labels the TMDB breaker in metrics and health output.
const BreakerName = "tmdb-api"

// CircuitBreakerClient wraps a ClientInterface with a circuit breaker.
type CircuitBreakerClient struct {
	client ClientInterface
	cb     *upstream.Breaker
}

// NewCircuitBreakerClient creates a TMDB client with circuit breaker.
func NewCircuitBreakerClient(cfg *config.TMDBConfig) *CircuitBreakerClient {
	return WrapWithCircuitBreaker(NewClient(cfg))
}

// WrapWithCircuitBreaker adds a breaker to client. Titles TMDB does not know
// are answered with 404 and do not count as failures.
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

// PosterURL resolves a poster URL with circuit breaker protection
func (cbc *CircuitBreakerClient) PosterURL(ctx context.Context, ref Ref) (string, error) {
	result, err := cbc.cb.Execute(func() (interface{}, error) {
		return cbc.client.PosterURL(ctx, ref)
	})
	if err != nil {
		return "", err
	}
	s, _ := result.(string)
	return s, nil
}

// FetchImage downloads a poster with circuit breaker protection
func (cbc *CircuitBreakerClient) FetchImage(ctx context.Context, imageURL string) (*upstream.Image, error) {
	return upstream.Cast[upstream.Image](cbc.cb.Execute(func() (interface{}, error) {
		return cbc.client.FetchImage(ctx, imageURL)
	}))
}
