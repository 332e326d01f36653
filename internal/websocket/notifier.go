// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package websocket

import (
	"context"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

// NotificationCreator is the write side of the notification store.
type NotificationCreator interface {
	Create(ctx context.Context, n *models.Notification) error
}

// Notifier is how business logic emits notifications: persist first, then
// broadcast to the recipient's channel. There is no implicit hook firing on
// store writes; callers that want a realtime push go through Notify.
type Notifier struct {
	hub   *Hub
	store NotificationCreator
}

// NewNotifier wires a notifier over the hub and store.
func NewNotifier(hub *Hub, store NotificationCreator) *Notifier {
	return &Notifier{hub: hub, store: store}
}

// Notify durably creates the notification and pushes a new_notification
// frame to the recipient's connections. If the write fails nothing is
// broadcast and the error is returned; delivery failures after a successful
// write are not errors.
func (n *Notifier) Notify(ctx context.Context, notif *models.Notification) error {
	if err := n.store.Create(ctx, notif); err != nil {
		return err
	}
	n.hub.Publish(UserGroup(notif.UserID), NewNotificationFrame{
		Type:         FrameNewNotification,
		Notification: notif,
	})
	return nil
}
