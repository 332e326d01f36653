// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package models

import "time"

// Roles assigned to users. Role gates the admin-only endpoints (creating
// notifications for other users, resetting passwords).
const (
	RoleAdmin    = "admin"
	RoleSenior   = "senior"
	RoleEmployee = "employee"
)

// User is an HRMS account. PasswordHash is a bcrypt hash and is never
// serialized to API responses.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name,omitempty"`
	Email        string    `json:"email,omitempty"`
	Role         string    `json:"role"`
	Department   string    `json:"department,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName returns the user's full name, falling back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return "System"
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// UserUpdate carries the allow-listed profile fields a PATCH may change.
// Nil pointers mean "leave unchanged". Anything outside this struct is a
// disallowed field by construction; unknown keys in the request body are
// rejected before this struct is ever built.
type UserUpdate struct {
	FullName   *string `json:"full_name,omitempty"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Department *string `json:"department,omitempty"`
}
