// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/auth"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/logging"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/websocket"
)

// CreatePrivateRoom handles POST /api/v1/chat/rooms/private. Both users get
// the same room regardless of who opens it first.
func (h *Handlers) CreatePrivateRoom(w http.ResponseWriter, r *http.Request) {
	identity := identityUser(r)

	var req CreatePrivateRoomRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.UserID == identity.UserID {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Cannot open a private room with yourself", nil)
		return
	}

	if _, err := h.users.GetByID(r.Context(), req.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to open room", err)
		return
	}

	room, err := h.rooms.EnsurePrivateRoom(r.Context(), identity.UserID, req.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to open room", err)
		return
	}
	respondSuccess(w, http.StatusOK, room)
}

// CreateGroupRoom handles POST /api/v1/chat/rooms. The creator joins
// automatically; every other listed participant gets a chat_group_added
// notification pushed over their notification socket.
func (h *Handlers) CreateGroupRoom(w http.ResponseWriter, r *http.Request) {
	identity := identityUser(r)

	var req CreateGroupRoomRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	room := &models.ChatRoom{
		Name:         req.Name,
		Title:        req.Title,
		IsGroup:      true,
		Department:   req.Department,
		Participants: req.Participants,
	}
	if err := h.rooms.CreateGroupRoom(r.Context(), room, identity.UserID); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			respondError(w, http.StatusConflict, "DUPLICATE", "Room name already in use", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create room", err)
		return
	}

	for _, userID := range room.Participants {
		if userID == identity.UserID {
			continue
		}
		h.notifyGroupAdded(r, userID, room.Name, identity)
	}

	logging.Ctx(r.Context()).Info().Str("room", room.Name).Int64("creator", identity.UserID).Msg("group room created")
	respondSuccess(w, http.StatusCreated, room)
}

// notifyGroupAdded pushes the membership notification. A failed
// notification is logged but does not fail the room operation; the durable
// participant list is already committed.
func (h *Handlers) notifyGroupAdded(r *http.Request, userID int64, roomName string, by auth.Identity) {
	notif := &models.Notification{
		UserID:        userID,
		Message:       fmt.Sprintf("%s added you to the group %s", by.Username, roomName),
		Type:          models.NotificationChatGroupAdded,
		RelatedUserID: by.UserID,
	}
	if err := h.notifier.Notify(r.Context(), notif); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Int64("user_id", userID).Str("room", roomName).
			Msg("group membership notification failed")
	}
}

// ListMyRooms handles GET /api/v1/chat/rooms.
func (h *Handlers) ListMyRooms(w http.ResponseWriter, r *http.Request) {
	identity := identityUser(r)

	rooms, err := h.rooms.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list rooms", err)
		return
	}
	if rooms == nil {
		rooms = []*models.ChatRoom{}
	}
	respondSuccess(w, http.StatusOK, rooms)
}

// AddParticipant handles POST /api/v1/chat/rooms/{room}/participants.
// Only existing participants may add people, and only to group rooms.
func (h *Handlers) AddParticipant(w http.ResponseWriter, r *http.Request) {
	identity := identityUser(r)
	roomName := chi.URLParam(r, "room")

	var req AddParticipantRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if !h.requireParticipant(w, r, identity.UserID, roomName) {
		return
	}
	if _, err := h.users.GetByID(r.Context(), req.UserID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add participant", err)
		return
	}

	room, err := h.rooms.AddParticipant(r.Context(), roomName, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Room not found", nil)
		case errors.Is(err, models.ErrForbidden):
			respondError(w, http.StatusForbidden, "FORBIDDEN", "Private rooms have a fixed pair of participants", nil)
		default:
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add participant", err)
		}
		return
	}

	if req.UserID != identity.UserID {
		h.notifyGroupAdded(r, req.UserID, roomName, identity)
	}
	respondSuccess(w, http.StatusOK, room)
}

// ListRoomMessages handles GET /api/v1/chat/rooms/{room}/messages. Only
// durable participants may read a room's history, mirroring the websocket
// handshake's membership gate.
func (h *Handlers) ListRoomMessages(w http.ResponseWriter, r *http.Request) {
	identity := identityUser(r)
	roomName := chi.URLParam(r, "room")

	if !h.requireParticipant(w, r, identity.UserID, roomName) {
		return
	}

	limit := queryLimit(r, 50, 500)
	messages, err := h.messages.ListRoom(r.Context(), roomName, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list messages", err)
		return
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	respondSuccess(w, http.StatusOK, messages)
}

// SendRoomMessage handles POST /api/v1/chat/rooms/{room}/messages. The
// message is persisted first and broadcast to the room group afterwards,
// exactly like the websocket send_message action, so REST-sent messages
// reach every open socket in the room.
func (h *Handlers) SendRoomMessage(w http.ResponseWriter, r *http.Request) {
	identity := identityUser(r)
	roomName := chi.URLParam(r, "room")

	var req SendMessageRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if !h.requireParticipant(w, r, identity.UserID, roomName) {
		return
	}

	msg, err := h.messages.Append(r.Context(), roomName, identity.UserID, req.Content, req.ContentType)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Room not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to send message", err)
		return
	}

	h.hub.Publish(websocket.RoomGroup(roomName), websocket.ChatMessageFrame{
		Type:    websocket.FrameChatMessage,
		Message: msg,
	})
	respondSuccess(w, http.StatusCreated, msg)
}

// requireParticipant writes the error response and returns false when the
// user is not a durable participant of the room.
func (h *Handlers) requireParticipant(w http.ResponseWriter, r *http.Request, userID int64, roomName string) bool {
	if !models.ValidRoomName(roomName) {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid room name", nil)
		return false
	}
	member, err := h.rooms.IsParticipant(r.Context(), userID, roomName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Membership check failed", err)
		return false
	}
	if !member {
		respondError(w, http.StatusForbidden, "FORBIDDEN", "Not a participant of this room", nil)
		return false
	}
	return true
}
