// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package websocket

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/auth"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/config"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/logging"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/metrics"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

// Close codes sent when a handshake is rejected. The socket is upgraded
// first so the code reaches the client as a proper close frame; HTTP status
// codes cannot carry this distinction.
const (
	CloseMissingGroup   = 4001
	CloseAuthFailed     = 4003
	CloseNotParticipant = 4004
)

const (
	endpointChat          = "chat"
	endpointNotifications = "notifications"
)

// Gateway accepts websocket upgrade requests, runs the handshake, registers
// the connection with the hub and owns its lifecycle until close.
type Gateway struct {
	hub           *Hub
	auth          Authenticator
	membership    MembershipResolver
	messages      MessageStore
	notifications NotificationStore
	cfg           config.RealtimeConfig
	upgrader      websocket.Upgrader
}

// NewGateway wires a gateway over its collaborators. allowedOrigins governs
// the upgrade CheckOrigin; "*" allows any origin.
func NewGateway(hub *Hub, auth Authenticator, membership MembershipResolver, messages MessageStore, notifications NotificationStore, cfg config.RealtimeConfig, allowedOrigins []string) *Gateway {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = struct{}{}
	}

	return &Gateway{
		hub:           hub,
		auth:          auth,
		membership:    membership,
		messages:      messages,
		notifications: notifications,
		cfg:           cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || allowAll {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// HandleChat upgrades GET /ws/chat/{room}. The connection joins the room's
// broadcast group after the token and durable membership both check out.
func (g *Gateway) HandleChat(w http.ResponseWriter, r *http.Request) {
	roomName := chi.URLParam(r, "room")

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	if !models.ValidRoomName(roomName) {
		g.reject(conn, endpointChat, CloseMissingGroup, "invalid room name")
		return
	}

	identity, ok := g.resolveToken(conn, r, endpointChat)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), g.cfg.AuthTimeout)
	member, err := g.membership.IsParticipant(ctx, identity.UserID, roomName)
	cancel()
	if err != nil || !member {
		if err != nil {
			logging.Warn().Err(err).Str("room", roomName).Int64("user_id", identity.UserID).
				Msg("membership check failed")
		}
		g.reject(conn, endpointChat, CloseNotParticipant, "not a participant")
		return
	}

	client := newClient(g.hub, conn, g.cfg, identity.UserID, identity.Username, endpointChat,
		[]string{RoomGroup(roomName)}, g.chatFrameHandler(roomName))
	g.hub.Register(client)
	client.start()

	client.enqueue(SystemFrame{Type: FrameSystem, Message: "Connected to room " + roomName})
}

// HandleNotifications upgrades GET /ws/notifications. The target group is
// implicit: the authenticated user's own channel.
func (g *Gateway) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	identity, ok := g.resolveToken(conn, r, endpointNotifications)
	if !ok {
		return
	}

	client := newClient(g.hub, conn, g.cfg, identity.UserID, identity.Username, endpointNotifications,
		[]string{UserGroup(identity.UserID)}, g.notificationFrameHandler)
	g.hub.Register(client)
	client.start()

	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.AuthTimeout)
	unread, err := g.notifications.UnreadCount(ctx, identity.UserID)
	cancel()
	if err != nil {
		logging.Error().Err(err).Int64("user_id", identity.UserID).Msg("unread count lookup failed")
	}
	client.enqueue(ConnectionEstablishedFrame{
		Type:                FrameConnectionEstablished,
		Message:             "Connected as " + identity.Username,
		UnreadNotifications: unread,
	})

	// An initial batch follows only when there is something to show.
	ctx, cancel = context.WithTimeout(context.Background(), g.cfg.AuthTimeout)
	recent, err := g.notifications.Recent(ctx, identity.UserID, g.cfg.InitialNotifications)
	cancel()
	if err != nil {
		logging.Error().Err(err).Int64("user_id", identity.UserID).Msg("initial notification fetch failed")
		return
	}
	if len(recent) > 0 {
		client.enqueue(NotificationListFrame{Type: FrameInitialNotifications, Notifications: recent})
	}
}

// resolveToken runs the bounded token check for an upgraded connection,
// rejecting with 4003 on failure or timeout.
func (g *Gateway) resolveToken(conn *websocket.Conn, r *http.Request, endpoint string) (auth.Identity, bool) {
	token := r.URL.Query().Get("token")

	ctx, cancel := context.WithTimeout(r.Context(), g.cfg.AuthTimeout)
	id, err := g.auth.Resolve(ctx, token)
	cancel()
	if err != nil {
		logging.Debug().Err(err).Str("endpoint", endpoint).Msg("token rejected")
		g.reject(conn, endpoint, CloseAuthFailed, "authentication failed")
		return auth.Identity{}, false
	}
	return id, true
}

// reject closes an upgraded connection with a handshake rejection code. The
// connection was never registered, so no cleanup beyond the close.
func (g *Gateway) reject(conn *websocket.Conn, endpoint string, code int, reason string) {
	metrics.WSHandshakeRejections.WithLabelValues(endpoint, metrics.RejectionCode(code)).Inc()
	_ = conn.SetWriteDeadline(time.Now().Add(g.cfg.WriteWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	_ = conn.Close()
}

// chatFrameHandler processes inbound chat frames. Unparseable frames are
// dropped silently and counted toward the parse-error threshold; unknown
// actions are dropped without counting.
func (g *Gateway) chatFrameHandler(roomName string) frameHandler {
	return func(c *Client, raw []byte) {
		var f inboundFrame
		if err := json.Unmarshal(raw, &f); err != nil {
			c.parseErrors++
			return
		}
		c.parseErrors = 0
		metrics.WSInboundFrames.WithLabelValues(f.action()).Inc()

		switch f.action() {
		case ActionSendMessage:
			g.sendMessage(c, roomName, &f)
		default:
			logging.Debug().Str("action", f.action()).Msg("ignoring unknown chat action")
		}
	}
}

// sendMessage appends the message durably, then broadcasts it. Persistence
// failure aborts the broadcast and is reported to the sender only.
func (g *Gateway) sendMessage(c *Client, roomName string, f *inboundFrame) {
	content := strings.TrimSpace(f.Content)
	if content == "" {
		c.enqueue(ErrorFrame{Type: FrameError, Message: "Message content is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.AuthTimeout)
	msg, err := g.messages.Append(ctx, roomName, c.userID, content, f.ContentType)
	cancel()
	if err != nil {
		logging.Error().Err(err).Str("room", roomName).Int64("user_id", c.userID).
			Msg("message append failed")
		c.enqueue(ErrorFrame{Type: FrameError, Message: "Failed to send message"})
		return
	}

	g.hub.Publish(RoomGroup(roomName), ChatMessageFrame{Type: FrameChatMessage, Message: msg})
}

// notificationFrameHandler processes inbound notification-socket frames.
// Unlike the chat socket, invalid JSON gets an error reply; it still counts
// toward the parse-error threshold.
func (g *Gateway) notificationFrameHandler(c *Client, raw []byte) {
	var f inboundFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		c.parseErrors++
		c.enqueue(ErrorFrame{Type: FrameError, Message: "Invalid JSON format"})
		return
	}
	c.parseErrors = 0
	metrics.WSInboundFrames.WithLabelValues(f.action()).Inc()

	switch f.action() {
	case ActionMarkRead:
		g.markRead(c, &f)
	case ActionGetNotifications:
		g.sendRecentNotifications(c)
	default:
		logging.Debug().Str("action", f.action()).Msg("ignoring unknown notification action")
	}
}

// markRead answers with success=false for an unknown or foreign id; only a
// store failure produces an error frame. A missing id gets no reply at all.
func (g *Gateway) markRead(c *Client, f *inboundFrame) {
	if f.NotificationID == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.AuthTimeout)
	_, err := g.notifications.MarkRead(ctx, c.userID, f.NotificationID)
	cancel()
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		logging.Error().Err(err).Int64("user_id", c.userID).Int64("notification_id", f.NotificationID).
			Msg("mark read failed")
		c.enqueue(ErrorFrame{Type: FrameError, Message: "Internal server error"})
		return
	}

	c.enqueue(NotificationMarkedReadFrame{
		Type:           FrameNotificationMarkedRead,
		Success:        err == nil,
		NotificationID: f.NotificationID,
	})
}

func (g *Gateway) sendRecentNotifications(c *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.AuthTimeout)
	recent, err := g.notifications.Recent(ctx, c.userID, g.cfg.InitialNotifications)
	cancel()
	if err != nil {
		logging.Error().Err(err).Int64("user_id", c.userID).Msg("notification fetch failed")
		c.enqueue(ErrorFrame{Type: FrameError, Message: "Internal server error"})
		return
	}
	if recent == nil {
		recent = []*models.Notification{}
	}
	c.enqueue(NotificationListFrame{Type: FrameNotificationsList, Notifications: recent})
}
