// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package events

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/metrics"
)

// Topic carries every Plexboard event.
const Topic = "plexboard.events"

// ErrClosed is returned by Publish and Subscribe after Close.
var ErrClosed = errors.New("events: bus closed")

// Publisher is the write side of the bus.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Config tunes the bus.
type Config struct {
	// Buffer is the per-subscriber channel size. Default 256.
	Buffer int
	// Logger defaults to a zerolog-backed adapter.
	Logger watermill.LoggerAdapter
}

// Bus is an in-process publish/subscribe bus.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
	buffer int
	closed atomic.Bool
}

// NewBus creates a bus.
func NewBus(cfg Config) *Bus {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}
	if cfg.Logger == nil {
		cfg.Logger = NewLoggerAdapter(logging.WithComponent("events"))
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: int64(cfg.Buffer),
		}, cfg.Logger),
		logger: cfg.Logger,
		buffer: cfg.Buffer,
	}
}

// Publish sends ev to every subscriber. ID and Time are filled in when empty.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	if b.closed.Load() {
		return ErrClosed
	}
	if ev.Type == "" {
		return fmt.Errorf("events: empty type")
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(ev.ID, payload)
	msg.Metadata.Set("type", ev.Type)
	msg.SetContext(ctx)

	if err := b.pubsub.Publish(Topic, msg); err != nil {
		metrics.EventsDropped.WithLabelValues("publish_failed").Inc()
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	metrics.EventsPublished.WithLabelValues(ev.Type).Inc()
	logging.Debug().Str("type", ev.Type).Str("key", ev.Key).Str("event_id", ev.ID).Msg("Event published")
	return nil
}

// Subscribe returns a channel of events. The channel closes when ctx is done
// or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context) (<-chan Event, error) {
	if b.closed.Load() {
		return nil, ErrClosed
	}
	msgs, err := b.pubsub.Subscribe(ctx, Topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan Event, b.buffer)
	go func() {
		defer close(out)
		for msg := range msgs {
			var ev Event
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				b.logger.Error("Dropping malformed event", err, watermill.LogFields{"message_uuid": msg.UUID})
				metrics.EventsDropped.WithLabelValues("decode").Inc()
				msg.Ack()
				continue
			}
			select {
			case out <- ev:
				msg.Ack()
			case <-ctx.Done():
				msg.Ack()
				return
			}
		}
	}()
	return out, nil
}

// Handler consumes one event.
type Handler func(Event)

// Run subscribes and feeds h until ctx is done. It is the body of the
// supervised bridge services.
func (b *Bus) Run(ctx context.Context, h Handler) error {
	ch, err := b.Subscribe(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrClosed
			}
			h(ev)
		}
	}
}

// Close shuts the bus down and closes every subscription.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	return b.pubsub.Close()
}
