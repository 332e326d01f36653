// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/auth"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/config"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/logging"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/store"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/websocket"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

// apiFixture wires a full router backed by an in-memory store. Every test
// gets its own fixture, so rate limiter state never bleeds between tests.
type apiFixture struct {
	t      *testing.T
	router http.Handler
	cfg    *config.Config

	users         *store.UserStore
	rooms         *store.RoomStore
	messages      *store.MessageStore
	notifications *store.NotificationStore
	otps          *store.OTPStore

	admin    *models.User
	employee *models.User

	adminToken    string
	employeeToken string

	nextAddr atomic.Int64
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	cfg := &config.Config{
		Security: config.SecurityConfig{
			JWTSecret:      "0123456789abcdef0123456789abcdef",
			SessionTimeout: time.Hour,
			CORSOrigins:    []string{"*"},
			RateLimit:      0,
		},
		Database: config.DatabaseConfig{InMemory: true},
		Realtime: config.RealtimeConfig{
			SendBuffer:           16,
			WriteWait:            time.Second,
			PongWait:             10 * time.Second,
			MaxMessageSize:       64 * 1024,
			AuthTimeout:          time.Second,
			ParseErrorThreshold:  4,
			InitialNotifications: 10,
		},
		OTP: config.OTPConfig{TTL: time.Minute, SweepInterval: time.Minute, CodeLength: 6},
	}

	kv, err := store.Open(&cfg.Database)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	users := store.NewUserStore(kv)
	rooms := store.NewRoomStore(kv)
	messages := store.NewMessageStore(kv, users, rooms)
	notifications := store.NewNotificationStore(kv)
	otps := store.NewOTPStore(kv, cfg.OTP)

	jwtMgr, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("jwt manager: %v", err)
	}
	authenticator := auth.NewTokenAuthenticator(jwtMgr, users)

	hub := websocket.NewHub()
	notifier := websocket.NewNotifier(hub, notifications)
	gateway := websocket.NewGateway(hub, authenticator, rooms, messages, notifications,
		cfg.Realtime, cfg.Security.CORSOrigins)

	h := NewHandlers(cfg, kv, users, rooms, messages, notifications, otps, jwtMgr, hub, notifier)
	mw := NewChiMiddleware(&cfg.Security, authenticator)

	f := &apiFixture{
		t:             t,
		router:        SetupChi(h, gateway, mw),
		cfg:           cfg,
		users:         users,
		rooms:         rooms,
		messages:      messages,
		notifications: notifications,
		otps:          otps,
	}

	f.admin = f.createUser("admin", "admin-pass-123", "admin@example.com", models.RoleAdmin)
	f.employee = f.createUser("alice", "alice-pass-123", "alice@example.com", models.RoleEmployee)
	f.adminToken = f.tokenFor(jwtMgr, f.admin)
	f.employeeToken = f.tokenFor(jwtMgr, f.employee)
	return f
}

func (f *apiFixture) createUser(username, password, email, role string) *models.User {
	f.t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	u := &models.User{Username: username, Email: email, Role: role, PasswordHash: hash}
	if err := f.users.Create(context.Background(), u); err != nil {
		f.t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func (f *apiFixture) tokenFor(jwtMgr *auth.JWTManager, u *models.User) string {
	f.t.Helper()
	token, _, err := jwtMgr.GenerateToken(u.ID, u.Username, u.Role)
	if err != nil {
		f.t.Fatalf("generate token: %v", err)
	}
	return token
}

// envelope mirrors models.APIResponse with raw data for per-test decoding.
type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

// do issues a request against the router. Each request gets a distinct
// client address so the per-IP rate limiters see independent clients unless
// a test overrides the address deliberately.
func (f *apiFixture) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, *envelope) {
	return f.doFrom(fmt.Sprintf("192.0.2.%d:4000", f.nextAddr.Add(1)%250+1), method, path, token, body)
}

func (f *apiFixture) doFrom(remoteAddr, method, path, token string, body interface{}) (*httptest.ResponseRecorder, *envelope) {
	f.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			f.t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = remoteAddr
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	env := &envelope{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), env); err != nil {
			f.t.Fatalf("decode response envelope (%d %s %s): %v", rec.Code, method, path, err)
		}
	}
	return rec, env
}

func (f *apiFixture) decodeData(env *envelope, dst interface{}) {
	f.t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		f.t.Fatalf("decode response data: %v", err)
	}
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, env *envelope, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected HTTP %d, got %d (body %s)", status, rec.Code, rec.Body.String())
	}
	if code == "" {
		if env.Status != "success" {
			t.Fatalf("expected success envelope, got %s", rec.Body.String())
		}
		return
	}
	if env.Error == nil || env.Error.Code != code {
		t.Fatalf("expected error code %s, got %s", code, rec.Body.String())
	}
}
