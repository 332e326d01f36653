// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/auth"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/config"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

// SeedAdmin ensures the configured admin account exists so a fresh install
// is usable without manual database edits. An existing account with the
// same username is left untouched, including its password.
func SeedAdmin(ctx context.Context, users *UserStore, cfg *config.SecurityConfig) (*models.User, error) {
	existing, err := users.GetByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required to seed the admin account")
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return nil, err
	}

	admin := &models.User{
		Username:     cfg.AdminUsername,
		FullName:     "Administrator",
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}
