// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package websocket

import (
	"context"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/auth"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

// Authenticator resolves the bearer token carried in the handshake query
// string. Implementations must honor ctx so the gateway can bound the check
// with a deadline.
type Authenticator interface {
	Resolve(ctx context.Context, token string) (auth.Identity, error)
}

// MembershipResolver answers whether a user is a durable participant of a
// room. It reflects stored membership, never ephemeral connection state.
type MembershipResolver interface {
	IsParticipant(ctx context.Context, userID int64, roomName string) (bool, error)
}

// MessageStore persists chat messages. Append runs before any broadcast of
// the message it returns.
type MessageStore interface {
	Append(ctx context.Context, roomName string, senderID int64, content, contentType string) (*models.Message, error)
}

// NotificationStore persists notifications and serves the per-user reads the
// notification socket needs.
type NotificationStore interface {
	UnreadCount(ctx context.Context, userID int64) (int, error)
	Recent(ctx context.Context, userID int64, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, id int64) (*models.Notification, error)
}

// Relay fans a serialized frame out to sibling instances. The hub calls it
// after local delivery when cross-instance fan-out is enabled.
type Relay interface {
	Relay(group string, payload []byte) error
}
