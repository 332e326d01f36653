// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/middleware"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/websocket"
)

// SetupChi builds the full route tree. The websocket endpoints sit outside
// the REST middleware chain: they authenticate via the token query
// parameter after the upgrade, and rate limiting an upgrade request would
// break reconnect storms after a deploy.
func SetupChi(h *Handlers, gateway *websocket.Gateway, mw *ChiMiddleware) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", h.Health)
		r.Get("/ready", h.Ready)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(mw.RateLimitAuth())
		r.Use(middleware.PrometheusMetrics)
		r.Post("/login", h.Login)
		r.Route("/password-reset", func(r chi.Router) {
			r.Post("/request", h.PasswordResetStart)
			r.Post("/verify", h.PasswordResetVerify)
			r.Post("/confirm", h.PasswordResetConfirm)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(mw.Authenticate)

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", h.GetMe)
			r.With(mw.RequireAdmin).Get("/", h.ListUsers)
			r.With(mw.RequireAdmin).Post("/", h.CreateUser)
			r.Get("/{id}", h.GetUser)
			r.Patch("/{id}", h.UpdateUser)
		})

		r.Route("/chat/rooms", func(r chi.Router) {
			r.Get("/", h.ListMyRooms)
			r.Post("/", h.CreateGroupRoom)
			r.Post("/private", h.CreatePrivateRoom)
			r.Route("/{room}", func(r chi.Router) {
				r.Post("/participants", h.AddParticipant)
				r.Get("/messages", h.ListRoomMessages)
				r.Post("/messages", h.SendRoomMessage)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.ListMyNotifications)
			r.With(mw.RequireAdmin).Post("/", h.CreateNotification)
			r.Post("/{id}/read", h.MarkNotificationRead)
		})
	})

	r.Route("/ws", func(r chi.Router) {
		r.Get("/chat/{room}", gateway.HandleChat)
		r.Get("/notifications", gateway.HandleNotifications)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown endpoint", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed for this endpoint", nil)
	})

	return r
}
