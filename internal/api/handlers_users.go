// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/auth"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/logging"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

// GetMe handles GET /api/v1/users/me.
func (h *Handlers) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	user, err := h.users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load profile", err)
		return
	}
	respondSuccess(w, http.StatusOK, user)
}

// ListUsers handles GET /api/v1/users (admin only).
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users", err)
		return
	}
	respondSuccess(w, http.StatusOK, users)
}

// CreateUser handles POST /api/v1/users (admin only).
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", err)
		return
	}

	user := &models.User{
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         req.Role,
		Department:   req.Department,
		PasswordHash: hash,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			respondError(w, http.StatusConflict, "DUPLICATE", "Username or email already in use", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user", err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("user created")
	respondSuccess(w, http.StatusCreated, user)
}

// GetUser handles GET /api/v1/users/{id}. Any authenticated user may look
// up coworkers; the password hash is never serialized.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid user id", nil)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load user", err)
		return
	}
	respondSuccess(w, http.StatusOK, user)
}

// UpdateUser handles PATCH /api/v1/users/{id}. Users may edit their own
// profile; admins may edit anyone's. The updatable fields are the
// models.UserUpdate allow-list; unknown fields fail the decode.
func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFrom(r.Context())

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid user id", nil)
		return
	}

	if id != identity.UserID && identity.Role != models.RoleAdmin {
		respondError(w, http.StatusForbidden, "FORBIDDEN", "Cannot edit another user's profile", nil)
		return
	}

	var upd models.UserUpdate
	if !decodeRequest(w, r, &upd) {
		return
	}

	user, err := h.users.Update(r.Context(), id, &upd)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
		case errors.Is(err, models.ErrDuplicate):
			respondError(w, http.StatusConflict, "DUPLICATE", "Email already in use", nil)
		default:
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update user", err)
		}
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", id).Int64("by", identity.UserID).Msg("profile updated")
	respondSuccess(w, http.StatusOK, user)
}

// identityUser is a convenience for handlers that only need the caller id.
func identityUser(r *http.Request) auth.Identity {
	identity, _ := IdentityFrom(r.Context())
	return identity
}
