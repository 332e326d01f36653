// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package websocket

import (
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

// Outbound frame types. Every frame a client receives is a JSON object with
// one of these in its "type" field.
const (
	FrameSystem                 = "system"
	FrameChatMessage            = "chat_message"
	FrameNewNotification        = "new_notification"
	FrameConnectionEstablished  = "connection_established"
	FrameInitialNotifications   = "initial_notifications"
	FrameNotificationsList      = "notifications_list"
	FrameNotificationMarkedRead = "notification_marked_read"
	FrameError                  = "error"
)

// Inbound frame actions.
const (
	ActionSendMessage      = "send_message"
	ActionMarkRead         = "mark_read"
	ActionGetNotifications = "get_notifications"
)

// SystemFrame acknowledges a successful chat handshake to the new connection
// only; it is never broadcast.
type SystemFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ChatMessageFrame is the broadcast form of a persisted chat message. The
// embedded record supplies id, room, sender, content, content_type and
// created_at.
type ChatMessageFrame struct {
	Type string `json:"type"`
	*models.Message
}

// NewNotificationFrame is the broadcast form of a persisted notification.
type NewNotificationFrame struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification"`
}

// ConnectionEstablishedFrame acknowledges a successful notification
// handshake, carrying the unread count so clients can badge immediately.
type ConnectionEstablishedFrame struct {
	Type                string `json:"type"`
	Message             string `json:"message"`
	UnreadNotifications int    `json:"unread_notifications"`
}

// NotificationListFrame carries a batch of recent notifications, newest
// first. Type is "initial_notifications" on connect and
// "notifications_list" when answering a get_notifications command.
type NotificationListFrame struct {
	Type          string                 `json:"type"`
	Notifications []*models.Notification `json:"notifications"`
}

// NotificationMarkedReadFrame answers a mark_read command. Success is false
// when the id does not exist or belongs to another user.
type NotificationMarkedReadFrame struct {
	Type           string `json:"type"`
	Success        bool   `json:"success"`
	NotificationID int64  `json:"notification_id"`
}

// ErrorFrame reports a failed local command to the issuing connection only.
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// inboundFrame is the superset of fields a client may send. Action carries
// the discriminator; Command is accepted as an alias for older clients.
type inboundFrame struct {
	Action         string `json:"action"`
	Command        string `json:"command"`
	Content        string `json:"content"`
	ContentType    string `json:"content_type"`
	NotificationID int64  `json:"notification_id"`
}

// action returns the effective discriminator.
func (f *inboundFrame) action() string {
	if f.Action != "" {
		return f.Action
	}
	return f.Command
}
