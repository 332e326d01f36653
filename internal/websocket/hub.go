// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package websocket

import (
	"context"
	"strings"

	"github.com/goccy/go-json"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/logging"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/metrics"
)

// Hub is the broadcast router. Request handlers and the gateway publish
// frames to group keys; the hub serializes each frame once and fans it out
// to the group's current registry snapshot.
type Hub struct {
	registry *Registry

	// dead receives connections whose send buffer overflowed so they can be
	// pruned off the publish path.
	dead chan *Client

	relay Relay
}

// NewHub returns a hub with an empty registry.
func NewHub() *Hub {
	return &Hub{
		registry: NewRegistry(),
		dead:     make(chan *Client, 64),
	}
}

// Registry exposes the connection registry for the gateway and tests.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// SetRelay enables cross-instance fan-out. Must be called before Serve.
func (h *Hub) SetRelay(r Relay) {
	h.relay = r
}

// Register subscribes a connection to every group it resolved at handshake
// time.
func (h *Hub) Register(c *Client) {
	for _, group := range c.groups {
		h.registry.Add(group, c)
	}
	metrics.WSActiveConnections.WithLabelValues(c.endpoint).Inc()
	logging.Debug().Uint64("conn_id", c.id).Int64("user_id", c.userID).
		Strs("groups", c.groups).Msg("websocket client registered")
}

// Unregister removes a connection from every group and closes its send
// channel. Idempotent: double-disconnect is safe.
func (h *Hub) Unregister(c *Client) {
	h.registry.RemoveAll(c)
	c.closeOnce.Do(func() {
		close(c.send)
		metrics.WSActiveConnections.WithLabelValues(c.endpoint).Dec()
		logging.Debug().Uint64("conn_id", c.id).Int64("user_id", c.userID).
			Msg("websocket client unregistered")
	})
}

// Publish serializes a frame and delivers it to every connection currently
// subscribed to the group, then hands it to the relay for sibling instances
// when one is configured. Returns the local delivered count; zero
// subscribers is not an error.
func (h *Hub) Publish(group string, frame interface{}) int {
	data, err := json.Marshal(frame)
	if err != nil {
		logging.Error().Err(err).Str("group", group).Msg("failed to marshal broadcast frame")
		return 0
	}

	metrics.WSPublishes.WithLabelValues(groupKind(group)).Inc()
	delivered := h.DeliverLocal(group, data)

	if h.relay != nil {
		if err := h.relay.Relay(group, data); err != nil {
			logging.Warn().Err(err).Str("group", group).Msg("relay publish failed")
		}
	}
	return delivered
}

// DeliverLocal enqueues pre-serialized bytes to the group's local snapshot.
// A failed enqueue marks that connection for pruning and never blocks or
// aborts delivery to the rest of the group.
func (h *Hub) DeliverLocal(group string, data []byte) int {
	delivered := 0
	for _, c := range h.registry.Snapshot(group) {
		if c.enqueueRaw(data) {
			delivered++
			metrics.WSDeliveries.Inc()
			continue
		}
		metrics.WSDeliveryFailures.Inc()
		logging.Warn().Uint64("conn_id", c.id).Int64("user_id", c.userID).
			Str("group", group).Msg("send buffer full, pruning connection")
		select {
		case h.dead <- c:
		default:
			// Pruning queue is itself saturated; unregister inline.
			h.Unregister(c)
		}
	}
	return delivered
}

// Serve runs the hub's maintenance loop under the supervision tree: it
// prunes dead connections until the context is canceled, then closes every
// remaining connection and returns.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			clients := h.registry.allConnections()
			for _, c := range clients {
				h.Unregister(c)
			}
			logging.Info().Str("component", "websocket-hub").
				Int("clients_closed", len(clients)).Msg("websocket hub stopped")
			return ctx.Err()

		case c := <-h.dead:
			h.Unregister(c)
		}
	}
}

// groupKind reduces a group key to its kind label ("user" or "room").
func groupKind(group string) string {
	if i := strings.IndexByte(group, ':'); i > 0 {
		return group[:i]
	}
	return "unknown"
}
