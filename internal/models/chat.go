// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package models

import (
	"fmt"
	"regexp"
	"time"
)

// MaxRoomNameLength bounds group room names; longer names are rejected at
// creation and at the websocket handshake.
const MaxRoomNameLength = 90

// roomNamePattern restricts room names to URL- and subject-safe characters.
var roomNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidRoomName reports whether name is acceptable as a room identifier.
func ValidRoomName(name string) bool {
	return name != "" && len(name) <= MaxRoomNameLength && roomNamePattern.MatchString(name)
}

// PrivateRoomName derives the deterministic name of the 1:1 room between two
// users. Both participants compute the same name regardless of argument
// order: p_{min}_{max} over the numeric user ids.
func PrivateRoomName(a, b int64) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("p_%d_%d", a, b)
}

// ChatRoom is a durable chat room record. IsGroup distinguishes named group
// rooms from deterministic 1:1 private rooms. Participants is the durable
// membership list and is the source of truth for who may join the room's
// websocket group; the connection registry only tracks who is connected now.
type ChatRoom struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Title        string    `json:"title,omitempty"`
	IsGroup      bool      `json:"is_group"`
	Department   string    `json:"department,omitempty"`
	Participants []int64   `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasParticipant reports whether userID is a durable participant.
func (r *ChatRoom) HasParticipant(userID int64) bool {
	for _, id := range r.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// Message is a durable chat message. Sender carries the sender's username
// because that is what the broadcast frame exposes; SenderID is kept for
// queries.
type Message struct {
	ID          int64     `json:"id"`
	RoomID      int64     `json:"room"`
	SenderID    int64     `json:"-"`
	Sender      string    `json:"sender"`
	Content     string    `json:"content"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}
