// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package store

import (
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

// The models hide some fields from API JSON (`json:"-"`): the password
// hash, a notification's recipient, a message's sender id. Persistence
// must keep them, so each store writes a record type that shadows the
// hidden field with a serializable one. The shadow wins on marshal and
// unmarshal; the conversion methods copy it back into the model.

type userRecord struct {
	models.User
	PasswordHash string `json:"password_hash,omitempty"`
}

func newUserRecord(u *models.User) *userRecord {
	return &userRecord{User: *u, PasswordHash: u.PasswordHash}
}

func (r *userRecord) user() *models.User {
	u := r.User
	u.PasswordHash = r.PasswordHash
	return &u
}

type notifRecord struct {
	models.Notification
	UserID int64 `json:"user_id"`
}

func newNotifRecord(n *models.Notification) *notifRecord {
	return &notifRecord{Notification: *n, UserID: n.UserID}
}

func (r *notifRecord) notification() *models.Notification {
	n := r.Notification
	n.UserID = r.UserID
	return &n
}

type messageRecord struct {
	models.Message
	SenderID int64 `json:"sender_id"`
}

func newMessageRecord(m *models.Message) *messageRecord {
	return &messageRecord{Message: *m, SenderID: m.SenderID}
}

func (r *messageRecord) message() *models.Message {
	m := r.Message
	m.SenderID = r.SenderID
	return &m
}
