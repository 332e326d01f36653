// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

func TestLoginSuccess(t *testing.T) {
	f := newAPIFixture(t)

	rec, env := f.do(http.MethodPost, "/api/v1/auth/login", "",
		models.LoginRequest{Username: "alice", Password: "alice-pass-123"})
	expectStatus(t, rec, env, http.StatusOK, "")

	var resp models.LoginResponse
	f.decodeData(env, &resp)
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User == nil || resp.User.Username != "alice" {
		t.Errorf("unexpected user in response: %+v", resp.User)
	}

	// The issued token authenticates API calls.
	rec, env = f.do(http.MethodGet, "/api/v1/users/me", resp.Token, nil)
	expectStatus(t, rec, env, http.StatusOK, "")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newAPIFixture(t)

	// Wrong password and unknown username return the same error code.
	rec, env := f.do(http.MethodPost, "/api/v1/auth/login", "",
		models.LoginRequest{Username: "alice", Password: "wrong"})
	expectStatus(t, rec, env, http.StatusUnauthorized, "INVALID_CREDENTIALS")

	rec, env = f.do(http.MethodPost, "/api/v1/auth/login", "",
		models.LoginRequest{Username: "nobody", Password: "whatever"})
	expectStatus(t, rec, env, http.StatusUnauthorized, "INVALID_CREDENTIALS")
}

func TestLoginValidation(t *testing.T) {
	f := newAPIFixture(t)

	rec, env := f.do(http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"username": "alice"})
	expectStatus(t, rec, env, http.StatusBadRequest, "VALIDATION_ERROR")

	rec, env = f.do(http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"username": "alice", "password": "x", "extra": "nope"})
	expectStatus(t, rec, env, http.StatusBadRequest, "INVALID_REQUEST")
}

func TestUnknownEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	rec, env := f.do(http.MethodGet, "/api/v1/nope", f.adminToken, nil)
	expectStatus(t, rec, env, http.StatusNotFound, "NOT_FOUND")
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAPIFixture(t)

	// Unknown email gets the same response as a known one.
	rec, env := f.do(http.MethodPost, "/api/v1/auth/password-reset/request", "",
		PasswordResetStartRequest{Email: "ghost@example.com"})
	expectStatus(t, rec, env, http.StatusOK, "")

	rec, env = f.do(http.MethodPost, "/api/v1/auth/password-reset/request", "",
		PasswordResetStartRequest{Email: "alice@example.com"})
	expectStatus(t, rec, env, http.StatusOK, "")

	// Replace the emailed code with a known one; Issue overwrites any
	// pending code for the address.
	code, err := f.otps.Issue(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("issue otp: %v", err)
	}

	// Confirm before verify is rejected.
	rec, env = f.do(http.MethodPost, "/api/v1/auth/password-reset/confirm", "",
		PasswordResetConfirmRequest{Email: "alice@example.com", NewPassword: "brand-new-pass1"})
	expectStatus(t, rec, env, http.StatusBadRequest, "INVALID_CODE")

	rec, env = f.do(http.MethodPost, "/api/v1/auth/password-reset/verify", "",
		PasswordResetVerifyRequest{Email: "alice@example.com", Code: "000000"})
	expectStatus(t, rec, env, http.StatusBadRequest, "INVALID_CODE")

	rec, env = f.do(http.MethodPost, "/api/v1/auth/password-reset/verify", "",
		PasswordResetVerifyRequest{Email: "alice@example.com", Code: code})
	expectStatus(t, rec, env, http.StatusOK, "")

	rec, env = f.do(http.MethodPost, "/api/v1/auth/password-reset/confirm", "",
		PasswordResetConfirmRequest{Email: "alice@example.com", NewPassword: "brand-new-pass1"})
	expectStatus(t, rec, env, http.StatusOK, "")

	// Old password no longer works, new one does.
	rec, env = f.do(http.MethodPost, "/api/v1/auth/login", "",
		models.LoginRequest{Username: "alice", Password: "alice-pass-123"})
	expectStatus(t, rec, env, http.StatusUnauthorized, "INVALID_CREDENTIALS")

	rec, env = f.do(http.MethodPost, "/api/v1/auth/login", "",
		models.LoginRequest{Username: "alice", Password: "brand-new-pass1"})
	expectStatus(t, rec, env, http.StatusOK, "")

	// The code is single-use.
	rec, env = f.do(http.MethodPost, "/api/v1/auth/password-reset/confirm", "",
		PasswordResetConfirmRequest{Email: "alice@example.com", NewPassword: "another-pass-22"})
	expectStatus(t, rec, env, http.StatusBadRequest, "INVALID_CODE")
}

func TestAuthRateLimit(t *testing.T) {
	f := newAPIFixture(t)

	// Same client address for every attempt trips the brute-force limiter.
	const addr = "198.51.100.7:5000"
	for i := 0; i < 5; i++ {
		rec, _ := f.doFrom(addr, http.MethodPost, "/api/v1/auth/login", "",
			models.LoginRequest{Username: "alice", Password: "wrong"})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i, rec.Code)
		}
	}
	rec, env := f.doFrom(addr, http.MethodPost, "/api/v1/auth/login", "",
		models.LoginRequest{Username: "alice", Password: "wrong"})
	expectStatus(t, rec, env, http.StatusTooManyRequests, "RATE_LIMITED")
}
