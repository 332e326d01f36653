// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package services

import "context"

// ContextRunner matches any component whose Serve blocks until its context
// is canceled: the websocket hub and the NATS bridge both qualify.
type ContextRunner interface {
	Serve(ctx context.Context) error
}

// RealtimeService supervises a ContextRunner under a stable name.
type RealtimeService struct {
	runner ContextRunner
	name   string
}

// NewHubService wraps the websocket hub.
func NewHubService(hub ContextRunner) *RealtimeService {
	return &RealtimeService{runner: hub, name: "websocket-hub"}
}

// NewBridgeService wraps the NATS fan-out bridge.
func NewBridgeService(bridge ContextRunner) *RealtimeService {
	return &RealtimeService{runner: bridge, name: "nats-bridge"}
}

// Serve implements suture.Service.
func (s *RealtimeService) Serve(ctx context.Context) error {
	return s.runner.Serve(ctx)
}

// String implements fmt.Stringer for suture's event log.
func (s *RealtimeService) String() string {
	return s.name
}
