// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package api

// Request bodies for the REST endpoints. Decoding rejects unknown fields,
// so each struct doubles as the allow-list of what a client may send.

// CreateUserRequest is the body of POST /api/v1/users (admin only).
type CreateUserRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=150"`
	Password   string `json:"password" validate:"required,min=8,max=128"`
	FullName   string `json:"full_name" validate:"max=200"`
	Email      string `json:"email" validate:"required,email"`
	Role       string `json:"role" validate:"required,oneof=admin senior employee"`
	Department string `json:"department" validate:"max=100"`
}

// PasswordResetStartRequest begins the OTP password reset flow.
type PasswordResetStartRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetVerifyRequest checks the emailed one-time code.
type PasswordResetVerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,min=4,max=10"`
}

// PasswordResetConfirmRequest sets the new password after a verified code.
type PasswordResetConfirmRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// CreatePrivateRoomRequest opens (or returns) the 1:1 room between the
// caller and UserID.
type CreatePrivateRoomRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

// CreateGroupRoomRequest creates a named group room. The caller becomes a
// participant automatically.
type CreateGroupRoomRequest struct {
	Name         string  `json:"name" validate:"required,room_name,max=90"`
	Title        string  `json:"title" validate:"max=200"`
	Department   string  `json:"department" validate:"max=100"`
	Participants []int64 `json:"participants" validate:"max=500,dive,gt=0"`
}

// AddParticipantRequest adds a user to a group room.
type AddParticipantRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

// SendMessageRequest posts a chat message over REST. The websocket
// send_message action is the primary path; this exists for clients without
// an open socket.
type SendMessageRequest struct {
	Content     string `json:"content" validate:"required,max=10000"`
	ContentType string `json:"content_type" validate:"omitempty,oneof=text image file"`
}

// CreateNotificationRequest creates a notification for another user
// (admin only).
type CreateNotificationRequest struct {
	UserID        int64  `json:"user_id" validate:"required,gt=0"`
	Message       string `json:"message" validate:"required,max=2000"`
	Type          string `json:"type" validate:"max=50"`
	RelatedUserID int64  `json:"related_user_id" validate:"omitempty,gt=0"`
}
