// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package api

import (
	"errors"
	"net/http"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/auth"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/logging"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/store"
)

// Login handles POST /api/v1/auth/login. The issued token authenticates
// both REST calls (Authorization header) and websocket handshakes (token
// query parameter).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed", err)
			return
		}
		// Same response as a wrong password so usernames cannot be probed.
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		logging.Ctx(r.Context()).Debug().Str("username", sanitizeLogValue(req.Username)).Msg("password mismatch")
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		return
	}

	token, expiresAt, err := h.jwt.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed", err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user logged in")
	respondSuccess(w, http.StatusOK, &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// PasswordResetStart handles POST /api/v1/auth/password-reset/request.
// It issues a one-time code for the account behind the email. The response
// is identical whether or not the account exists.
func (h *Handlers) PasswordResetStart(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetStartRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	resp := map[string]interface{}{
		"message":    "If the account exists, a reset code has been sent",
		"expires_in": h.cfg.OTP.TTL.Seconds(),
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Password reset failed", err)
			return
		}
		logging.Ctx(r.Context()).Debug().Str("email", sanitizeLogValue(req.Email)).Msg("password reset for unknown email")
		respondSuccess(w, http.StatusOK, resp)
		return
	}

	code, err := h.otps.Issue(r.Context(), req.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Password reset failed", err)
		return
	}

	// Delivery is out of band. The code is logged at debug level only, for
	// development setups without a mail relay.
	logging.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("password reset code issued")
	logging.Ctx(r.Context()).Debug().Str("code", code).Msg("password reset code")

	respondSuccess(w, http.StatusOK, resp)
}

// PasswordResetVerify handles POST /api/v1/auth/password-reset/verify.
// A verified code stays pending until confirmed or expired.
func (h *Handlers) PasswordResetVerify(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetVerifyRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.otps.Verify(r.Context(), req.Email, req.Code); err != nil {
		if errors.Is(err, store.ErrOTPInvalid) {
			respondError(w, http.StatusBadRequest, "INVALID_CODE", "Invalid or expired reset code", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Password reset failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"message": "Code verified"})
}

// PasswordResetConfirm handles POST /api/v1/auth/password-reset/confirm.
// It consumes the verified code and replaces the account password.
func (h *Handlers) PasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetConfirmRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			respondError(w, http.StatusBadRequest, "INVALID_CODE", "Invalid or expired reset code", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Password reset failed", err)
		return
	}

	if err := h.otps.Consume(r.Context(), req.Email); err != nil {
		if errors.Is(err, store.ErrOTPInvalid) || errors.Is(err, store.ErrOTPNotVerified) {
			respondError(w, http.StatusBadRequest, "INVALID_CODE", "Invalid or expired reset code", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Password reset failed", err)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Password reset failed", err)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Password reset failed", err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("password reset completed")
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
