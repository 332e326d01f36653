// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package api

import (
	"time"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/auth"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/config"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/store"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/websocket"
)

// Handlers holds the REST handler set and its dependencies. The websocket
// gateway is wired separately in the router; REST handlers reach the hub
// only through the Notifier and for publishing REST-sent chat messages.
type Handlers struct {
	cfg *config.Config

	kv            *store.Store
	users         *store.UserStore
	rooms         *store.RoomStore
	messages      *store.MessageStore
	notifications *store.NotificationStore
	otps          *store.OTPStore

	jwt      *auth.JWTManager
	hub      *websocket.Hub
	notifier *websocket.Notifier

	startedAt time.Time
}

// NewHandlers wires the REST handler set.
func NewHandlers(
	cfg *config.Config,
	kv *store.Store,
	users *store.UserStore,
	rooms *store.RoomStore,
	messages *store.MessageStore,
	notifications *store.NotificationStore,
	otps *store.OTPStore,
	jwt *auth.JWTManager,
	hub *websocket.Hub,
	notifier *websocket.Notifier,
) *Handlers {
	return &Handlers{
		cfg:           cfg,
		kv:            kv,
		users:         users,
		rooms:         rooms,
		messages:      messages,
		notifications: notifications,
		otps:          otps,
		jwt:           jwt,
		hub:           hub,
		notifier:      notifier,
		startedAt:     time.Now(),
	}
}
