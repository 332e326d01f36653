// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package models

import "time"

// Notification types. "general" is the default when a caller passes an
// unknown or empty type.
const (
	NotificationTask           = "task"
	NotificationProfile        = "profile"
	NotificationLeave          = "leave"
	NotificationAttendance     = "attendance"
	NotificationGeneral        = "general"
	NotificationChatGroupAdded = "chat_group_added"
)

// validNotificationTypes is the closed set of accepted notification types.
var validNotificationTypes = map[string]struct{}{
	NotificationTask:           {},
	NotificationProfile:        {},
	NotificationLeave:          {},
	NotificationAttendance:     {},
	NotificationGeneral:        {},
	NotificationChatGroupAdded: {},
}

// NormalizeNotificationType maps arbitrary input to a valid notification
// type, defaulting to "general".
func NormalizeNotificationType(t string) string {
	if _, ok := validNotificationTypes[t]; ok {
		return t
	}
	return NotificationGeneral
}

// Notification is a durable per-user notification. RelatedUserID identifies
// the user whose action caused the notification (the admin who approved a
// leave, the user who assigned a task) and may be zero.
type Notification struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"-"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	RelatedUserID int64     `json:"related_user_id,omitempty"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}
