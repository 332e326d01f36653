// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/auth"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/config"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/logging"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

// loginRateLimit is the brute-force ceiling on the auth endpoints,
// deliberately stricter than the general API limit.
var loginRateLimit = struct {
	requests int
	window   time.Duration
}{requests: 5, window: time.Minute}

// ChiMiddleware bundles the cross-cutting request middleware. One instance
// is shared by the whole router.
type ChiMiddleware struct {
	security *config.SecurityConfig
	auth     *auth.TokenAuthenticator
}

// NewChiMiddleware creates the middleware set from the security config.
func NewChiMiddleware(security *config.SecurityConfig, authenticator *auth.TokenAuthenticator) *ChiMiddleware {
	return &ChiMiddleware{security: security, auth: authenticator}
}

// CORS returns the CORS handler applied to every route. Origins come from
// HRMS_SECURITY_CORS_ORIGINS; "*" disables the origin check entirely.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   m.security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           86400,
	})
}

// RateLimit returns the per-IP limiter for the general API. A zero
// configured rate disables limiting.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.security.RateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		m.security.RateLimit+m.security.RateLimitBurst,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimited),
	)
}

// RateLimitAuth returns the stricter limiter mounted on the login and
// password reset endpoints.
func (m *ChiMiddleware) RateLimitAuth() func(http.Handler) http.Handler {
	return httprate.Limit(
		loginRateLimit.requests,
		loginRateLimit.window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(rateLimited),
	)
}

func rateLimited(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down", nil)
}

type identityContextKey struct{}

// IdentityFrom returns the authenticated caller stored by Authenticate.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(auth.Identity)
	return id, ok
}

// Authenticate resolves the Authorization bearer token and stores the
// caller's identity in the request context. The identity is re-read from
// the user store on every request, so a role change or deleted account
// takes effect immediately even while the token is still unexpired.
func (m *ChiMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token", nil)
			return
		}

		identity, err := m.auth.Resolve(r.Context(), token)
		if err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Str("path", r.URL.Path).Msg("token rejected")
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates a route to callers with the admin role. Must be
// mounted inside Authenticate.
func (m *ChiMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token", nil)
			return
		}
		if identity.Role != models.RoleAdmin {
			respondError(w, http.StatusForbidden, "FORBIDDEN", "Admin role required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
