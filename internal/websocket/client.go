// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/config"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/logging"
)

// clientIDCounter assigns unique, monotonically increasing ids so snapshots
// can be sorted into a consistent fan-out order.
var clientIDCounter atomic.Uint64

// frameHandler processes one inbound frame. Frames on a connection are
// handled in arrival order.
type frameHandler func(c *Client, raw []byte)

// Client is one live connection: its socket, its authenticated identity, the
// groups it joined at handshake time, and its outbound send buffer.
type Client struct {
	id       uint64
	userID   int64
	username string
	endpoint string
	groups   []string

	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	handler frameHandler
	cfg     config.RealtimeConfig

	// parseErrors counts consecutive unparseable frames. Crossing the
	// configured threshold closes the connection.
	parseErrors int

	closeOnce sync.Once
}

// newClient wires a client for an upgraded connection. The handler is the
// endpoint-specific inbound frame processor.
func newClient(hub *Hub, conn *websocket.Conn, cfg config.RealtimeConfig, userID int64, username, endpoint string, groups []string, handler frameHandler) *Client {
	return &Client{
		id:       clientIDCounter.Add(1),
		userID:   userID,
		username: username,
		endpoint: endpoint,
		groups:   groups,
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, cfg.SendBuffer),
		handler:  handler,
		cfg:      cfg,
	}
}

// ID returns the connection's unique id.
func (c *Client) ID() uint64 {
	return c.id
}

// UserID returns the authenticated user id.
func (c *Client) UserID() int64 {
	return c.userID
}

// enqueue serializes a frame and queues it for this connection only. A full
// buffer drops the frame; delivery is best-effort.
func (c *Client) enqueue(frame interface{}) {
	data, err := json.Marshal(frame)
	if err != nil {
		logging.Error().Err(err).Str("endpoint", c.endpoint).Msg("failed to marshal frame")
		return
	}
	c.enqueueRaw(data)
}

// enqueueRaw queues pre-serialized bytes, reporting whether they fit.
func (c *Client) enqueueRaw(data []byte) bool {
	defer func() {
		// Losing the race with closeSend is tolerated: the connection is
		// going away and pending sends are discarded by contract.
		_ = recover()
	}()
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// start launches the read and write pumps.
func (c *Client) start() {
	go c.writePump()
	go c.readPump()
}

// readPump reads inbound frames and hands them to the endpoint handler in
// arrival order. On any exit it unregisters the client, which removes it
// from every group it joined.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logging.Warn().Err(err).Str("endpoint", c.endpoint).Int64("user_id", c.userID).
					Msg("unexpected websocket close")
			}
			return
		}
		c.handler(c, raw)
		if c.parseErrors >= c.cfg.ParseErrorThreshold {
			logging.Warn().Str("endpoint", c.endpoint).Int64("user_id", c.userID).
				Int("parse_errors", c.parseErrors).Msg("closing connection after repeated malformed frames")
			return
		}
	}
}

// writePump writes queued frames and keepalive pings until the send channel
// closes or a write fails.
func (c *Client) writePump() {
	pingPeriod := c.cfg.PongWait * 9 / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logging.Debug().Err(err).Str("endpoint", c.endpoint).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
