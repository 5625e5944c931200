// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer selects the child supervisor a service runs under. A service that
// keeps crashing is restarted inside its layer without touching the others.
type Layer int

const (
	// LayerData holds poster cache maintenance and file watchers.
	LayerData Layer = iota
	// LayerMessaging holds the WebSocket hub and the event bridges.
	LayerMessaging
	// LayerAPI holds the HTTP server.
	LayerAPI

	layerCount
)

var layerNames = [layerCount]string{"data-layer", "messaging-layer", "api-layer"}

func (l Layer) String() string {
	if l < 0 || l >= layerCount {
		return fmt.Sprintf("layer(%d)", int(l))
	}
	return layerNames[l]
}

// TreeConfig tunes restart behavior. Zero fields take DefaultTreeConfig values.
type TreeConfig struct {
	// FailureThreshold is the decayed failure count that triggers backoff.
	FailureThreshold float64
	// FailureDecay is the failure half-life in seconds.
	FailureDecay float64
	// FailureBackoff is the pause once the threshold is crossed.
	FailureBackoff time.Duration
	// ShutdownTimeout bounds how long each service gets to stop.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns the suture defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec(hook suture.EventHook) suture.Spec {
	return suture.Spec{
		EventHook:        hook,
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// Tree is the server's supervisor: a root named "plexboard" with one child
// supervisor per Layer. Only the root reports events, through slog.
type Tree struct {
	root     *suture.Supervisor
	layers   [layerCount]*suture.Supervisor
	services [layerCount][]string
	config   TreeConfig
}

// NewTree builds the root and its layer supervisors.
func NewTree(logger *slog.Logger, config TreeConfig) *Tree {
	config = config.withDefaults()

	// MustHook has a pointer receiver.
	hook := (&sutureslog.Handler{Logger: logger}).MustHook()

	t := &Tree{root: suture.New("plexboard", config.spec(hook)), config: config}
	for l := Layer(0); l < layerCount; l++ {
		t.layers[l] = suture.New(l.String(), config.spec(nil))
		t.root.Add(t.layers[l])
	}
	return t
}

// Add runs svc under layer. It panics on an unknown layer.
func (t *Tree) Add(layer Layer, svc suture.Service) suture.ServiceToken {
	if layer < 0 || layer >= layerCount {
		panic("supervisor: unknown " + layer.String())
	}
	t.services[layer] = append(t.services[layer], fmt.Sprint(svc))
	return t.layers[layer].Add(svc)
}

// Services lists the names added to layer, in order. Call it before
// serving or from the goroutine that adds services.
func (t *Tree) Services(layer Layer) []string {
	if layer < 0 || layer >= layerCount {
		return nil
	}
	return append([]string(nil), t.services[layer]...)
}

// ServeBackground runs the tree in a goroutine. The channel receives the
// result once ctx is canceled and every layer has stopped.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
