// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package tautulli

import (
	"context"
	"net/url"

	"github.com/goccy/go-json"

	"github.com/tomtom215/plexboard/internal/config"
	tmodels "github.com/tomtom215/plexboard/internal/models/tautulli"
	"github.com/tomtom215/plexboard/internal/upstream"
)

// BreakerName labels the Tautulli breaker in metrics and health output.
const BreakerName = "tautulli-api"

// CircuitBreakerClient wraps a ClientInterface with a circuit breaker.
// Breaker settings: 60% failure rate over at least 10 requests opens the
// circuit for 2 minutes. 4xx answers do not count as failures.
type CircuitBreakerClient struct {
	client ClientInterface
	cb     *upstream.Breaker
}

// NewCircuitBreakerClient creates a Tautulli client with circuit breaker.
func NewCircuitBreakerClient(cfg *config.TautulliConfig) *CircuitBreakerClient {
	return WrapWithCircuitBreaker(NewClient(cfg))
}

// WrapWithCircuitBreaker adds a breaker to an existing client.
func WrapWithCircuitBreaker(client ClientInterface) *CircuitBreakerClient {
	settings := upstream.DefaultBreakerSettings
	settings.IsSuccessful = upstream.ClientErrorIsSuccess
	return &CircuitBreakerClient{
		client: client,
		cb:     upstream.NewBreaker(BreakerName, settings),
	}
}

// Unwrap returns the underlying client.
func (cbc *CircuitBreakerClient) Unwrap() ClientInterface { return cbc.client }

// BreakerState returns "closed", "half-open" or "open".
func (cbc *CircuitBreakerClient) BreakerState() string { return cbc.cb.State() }

// Ping verifies connectivity with circuit breaker protection
func (cbc *CircuitBreakerClient) Ping(ctx context.Context) error {
	return cbc.cb.Run(func() error { return cbc.client.Ping(ctx) })
}

// GetRecentlyAdded retrieves recently added content with circuit breaker protection
func (cbc *CircuitBreakerClient) GetRecentlyAdded(ctx context.Context, count, start int, mediaType string, sectionID int) (*tmodels.TautulliRecentlyAdded, error) {
	return upstream.Cast[tmodels.TautulliRecentlyAdded](cbc.cb.Execute(func() (interface{}, error) {
		return cbc.client.GetRecentlyAdded(ctx, count, start, mediaType, sectionID)
	}))
}

// GetActivity retrieves current activity with circuit breaker protection
func (cbc *CircuitBreakerClient) GetActivity(ctx context.Context) (*tmodels.TautulliActivity, error) {
	return upstream.Cast[tmodels.TautulliActivity](cbc.cb.Execute(func() (interface{}, error) {
		return cbc.client.GetActivity(ctx)
	}))
}

// GetUsers retrieves all users with circuit breaker protection
func (cbc *CircuitBreakerClient) GetUsers(ctx context.Context) (*tmodels.TautulliUsers, error) {
	return upstream.Cast[tmodels.TautulliUsers](cbc.cb.Execute(func() (interface{}, error) {
		return cbc.client.GetUsers(ctx)
	}))
}

// GetLibraries retrieves all libraries with circuit breaker protection
func (cbc *CircuitBreakerClient) GetLibraries(ctx context.Context) (*tmodels.TautulliLibraries, error) {
	return upstream.Cast[tmodels.TautulliLibraries](cbc.cb.Execute(func() (interface{}, error) {
		return cbc.client.GetLibraries(ctx)
	}))
}

// GetMetadata retrieves metadata for a rating key with circuit breaker protection
func (cbc *CircuitBreakerClient) GetMetadata(ctx context.Context, ratingKey string) (*tmodels.TautulliMetadata, error) {
	return upstream.Cast[tmodels.TautulliMetadata](cbc.cb.Execute(func() (interface{}, error) {
		return cbc.client.GetMetadata(ctx, ratingKey)
	}))
}

// Call forwards a raw command with circuit breaker protection
func (cbc *CircuitBreakerClient) Call(ctx context.Context, cmd string, params url.Values) (json.RawMessage, error) {
	result, err := cbc.cb.Execute(func() (interface{}, error) {
		return cbc.client.Call(ctx, cmd, params)
	})
	if err != nil {
		return nil, err
	}
	raw, _ := result.(json.RawMessage)
	return raw, nil
}

// FetchImage loads an image through pms_image_proxy with circuit breaker protection
func (cbc *CircuitBreakerClient) FetchImage(ctx context.Context, img string, width, height int) (*upstream.Image, error) {
	return upstream.Cast[upstream.Image](cbc.cb.Execute(func() (interface{}, error) {
		return cbc.client.FetchImage(ctx, img, width, height)
	}))
}
