// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

// Package events bridges the local broadcast hub to sibling instances over
// NATS, so a frame published on one instance reaches clients connected to
// any other. With the bridge disabled the hub is purely local, which is the
// default single-instance deployment.
package events

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/config"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/logging"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/metrics"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/websocket"
)

// envelope is the wire format on the relay subject. Group keys may contain
// characters that are not subject-safe, so the group travels in the payload
// and every instance shares one subject.
type envelope struct {
	Instance string          `json:"instance"`
	Group    string          `json:"group"`
	Payload  json.RawMessage `json:"payload"`
}

// LocalDeliverer is the hub-side sink for frames arriving from siblings.
type LocalDeliverer interface {
	DeliverLocal(group string, data []byte) int
}

// Bridge relays hub publishes to NATS and injects sibling publishes into the
// local hub. Each bridge tags outgoing envelopes with its instance id and
// skips its own echoes on the way back in.
type Bridge struct {
	cfg      config.NATSConfig
	hub      LocalDeliverer
	instance string

	// nc is written by Serve and read by Relay from publisher goroutines.
	nc  atomic.Pointer[nats.Conn]
	sub *nats.Subscription
}

// NewBridge creates an unconnected bridge. Connect happens in Serve so a
// NATS outage at boot surfaces as a supervised restart, not a fatal error.
func NewBridge(cfg config.NATSConfig, hub LocalDeliverer) *Bridge {
	return &Bridge{
		cfg:      cfg,
		hub:      hub,
		instance: uuid.NewString(),
	}
}

// subject is the single relay subject shared by all instances.
func (b *Bridge) subject() string {
	return b.cfg.SubjectPrefix + ".publish"
}

// Relay implements websocket.Relay: it wraps the already-serialized frame in
// an envelope and publishes it for sibling instances. Before Serve has
// connected, relaying is a silent no-op; local delivery already happened.
func (b *Bridge) Relay(group string, payload []byte) error {
	nc := b.nc.Load()
	if nc == nil || !nc.IsConnected() {
		return nil
	}

	data, err := json.Marshal(envelope{
		Instance: b.instance,
		Group:    group,
		Payload:  payload,
	})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := nc.Publish(b.subject(), data); err != nil {
		return fmt.Errorf("publish envelope: %w", err)
	}
	metrics.RelayPublished.Inc()
	return nil
}

// Serve connects, subscribes and forwards sibling publishes into the local
// hub until the context is canceled. Designed to run under the supervision
// tree; any terminal NATS error returns and triggers a restart.
func (b *Bridge) Serve(ctx context.Context) error {
	nc, err := nats.Connect(b.cfg.URL,
		nats.Name("hrms-realtime-"+b.instance),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	b.nc.Store(nc)
	defer func() {
		b.nc.Store(nil)
		nc.Close()
	}()

	sub, err := nc.Subscribe(b.subject(), b.handleMessage)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", b.subject(), err)
	}
	b.sub = sub
	defer func() { _ = sub.Unsubscribe() }()

	logging.Info().Str("component", "nats-bridge").Str("subject", b.subject()).
		Str("instance", b.instance).Msg("relay bridge started")

	<-ctx.Done()
	logging.Info().Str("component", "nats-bridge").Msg("relay bridge stopped")
	return ctx.Err()
}

// handleMessage delivers one sibling envelope locally, dropping our own
// echoes and anything malformed.
func (b *Bridge) handleMessage(msg *nats.Msg) {
	var env envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		logging.Warn().Err(err).Msg("dropping malformed relay envelope")
		return
	}
	if env.Instance == b.instance {
		return
	}
	metrics.RelayReceived.Inc()
	b.hub.DeliverLocal(env.Group, env.Payload)
}

// interface check
var _ websocket.Relay = (*Bridge)(nil)
