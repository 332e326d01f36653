// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/logging"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

// CreateNotification handles POST /api/v1/notifications (admin only).
// The notification is persisted before it is pushed, so a recipient with no
// open socket still sees it in their list and unread count.
func (h *Handlers) CreateNotification(w http.ResponseWriter, r *http.Request) {
	identity := identityUser(r)

	var req CreateNotificationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if _, err := h.users.GetByID(r.Context(), req.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create notification", err)
		return
	}

	notif := &models.Notification{
		UserID:        req.UserID,
		Message:       req.Message,
		Type:          models.NormalizeNotificationType(req.Type),
		RelatedUserID: req.RelatedUserID,
	}
	if notif.RelatedUserID == 0 {
		notif.RelatedUserID = identity.UserID
	}

	if err := h.notifier.Notify(r.Context(), notif); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create notification", err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", req.UserID).Str("type", notif.Type).Msg("notification created")
	respondSuccess(w, http.StatusCreated, notif)
}

// ListMyNotifications handles GET /api/v1/notifications, newest first.
func (h *Handlers) ListMyNotifications(w http.ResponseWriter, r *http.Request) {
	identity := identityUser(r)

	limit := queryLimit(r, h.cfg.Realtime.InitialNotifications, 100)
	notifs, err := h.notifications.Recent(r.Context(), identity.UserID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notifications", err)
		return
	}
	if notifs == nil {
		notifs = []*models.Notification{}
	}

	unread, err := h.notifications.UnreadCount(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notifications", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"notifications": notifs,
		"unread_count":  unread,
	})
}

// MarkNotificationRead handles POST /api/v1/notifications/{id}/read.
// Marking an already-read notification succeeds; marking someone else's
// returns not found rather than leaking its existence.
func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	identity := identityUser(r)

	id, ok := pathID(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid notification id", nil)
		return
	}

	notif, err := h.notifications.MarkRead(r.Context(), identity.UserID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Notification not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark notification read", err)
		return
	}
	respondSuccess(w, http.StatusOK, notif)
}
