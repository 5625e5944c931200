// Plexboard - Plex and Tautulli Dashboard Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexboard

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/plexboard/internal/logging"
	"github.com/tomtom215/plexboard/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

var clientIDCounter atomic.Uint64

// Client is one browser connection. The hub owns send and closes it on
// unregister; the pumps own conn.
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn
	send chan Message
	log  zerolog.Logger
}

// NewClient creates a client with the next monotonically increasing ID.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	id := clientIDCounter.Add(1)
	return &Client{
		id:   id,
		hub:  hub,
		conn: conn,
		send: make(chan Message, 64),
		log:  logging.WithComponent("websocket").With().Uint64("client_id", id).Logger(),
	}
}

// ID returns the client's identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// Start runs both pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// readPump answers application pings from the browser and keeps the read
// deadline alive on protocol pongs. Anything else is dropped: the channel
// is push-only.
func (c *Client) readPump() {
	defer c.leave()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.Error().Err(err).Msg("Failed to set websocket read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				metrics.WSErrors.WithLabelValues("read").Inc()
				c.log.Warn().Err(err).Msg("Unexpected websocket close")
			}
			return
		}
		metrics.WSMessagesReceived.Inc()

		if msg.Type != MessageTypePing {
			continue
		}
		select {
		case c.send <- Message{Type: MessageTypePong}:
		default:
		}
	}
}

// leave unregisters from the hub, giving up after writeWait when the hub
// has already stopped.
func (c *Client) leave() {
	select {
	case c.hub.Unregister <- c:
	case <-time.After(writeWait):
	}
	_ = c.conn.Close()
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = c.frame(func() error { return c.conn.WriteMessage(websocket.CloseMessage, nil) })
				return
			}
			if err := c.frame(func() error { return c.conn.WriteJSON(message) }); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				c.log.Debug().Err(err).Str("type", message.Type).Msg("Websocket write failed")
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.frame(func() error { return c.conn.WriteMessage(websocket.PingMessage, nil) }); err != nil {
				return
			}
		}
	}
}

// frame applies the write deadline before write.
func (c *Client) frame(write func() error) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return write()
}
