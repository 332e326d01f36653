// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

// Identity is the resolved caller of an authenticated request or connection.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

// UserLookup is the subset of the user store the authenticator needs.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// TokenAuthenticator resolves bearer tokens to identities. Beyond signature
// and expiry checks it verifies the subject still exists, so tokens for
// deleted accounts stop working immediately.
type TokenAuthenticator struct {
	jwt   *JWTManager
	users UserLookup
}

// NewTokenAuthenticator builds an authenticator over the given JWT manager
// and user store.
func NewTokenAuthenticator(jwt *JWTManager, users UserLookup) *TokenAuthenticator {
	return &TokenAuthenticator{jwt: jwt, users: users}
}

// Resolve validates the token and confirms the user still exists. The user
// lookup honors ctx, so callers can bound the whole resolution with a
// deadline. Returns ErrInvalidToken or ErrTokenExpired on failure.
func (a *TokenAuthenticator) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	claims, err := a.jwt.ValidateToken(token)
	if err != nil {
		return Identity{}, err
	}

	user, err := a.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return Identity{}, fmt.Errorf("%w: unknown user %d", ErrInvalidToken, claims.UserID)
		}
		return Identity{}, fmt.Errorf("user lookup failed: %w", err)
	}

	// Role comes from the store, not the token, so role changes take
	// effect without re-issuing tokens.
	return Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}
