// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

type fakeUserLookup struct {
	users map[int64]*models.User
	err   error
}

func (f *fakeUserLookup) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	return u, nil
}

func TestResolve(t *testing.T) {
	m := newTestManager(t, time.Hour)
	lookup := &fakeUserLookup{users: map[int64]*models.User{
		42: {ID: 42, Username: "alice", Role: models.RoleAdmin},
	}}
	a := NewTokenAuthenticator(m, lookup)

	token, _, err := m.GenerateToken(42, "alice", models.RoleEmployee)
	if err != nil {
		t.Fatal(err)
	}

	id, err := a.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if id.UserID != 42 || id.Username != "alice" {
		t.Errorf("identity = %+v, want user 42 alice", id)
	}
	// The store role wins over the (stale) token role.
	if id.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want store role %q", id.Role, models.RoleAdmin)
	}
}

func TestResolveEmptyToken(t *testing.T) {
	a := NewTokenAuthenticator(newTestManager(t, time.Hour), &fakeUserLookup{})
	if _, err := a.Resolve(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestResolveDeletedUser(t *testing.T) {
	m := newTestManager(t, time.Hour)
	a := NewTokenAuthenticator(m, &fakeUserLookup{users: map[int64]*models.User{}})

	token, _, err := m.GenerateToken(99, "ghost", models.RoleEmployee)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Resolve(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken for deleted user", err)
	}
}

func TestResolveLookupFailure(t *testing.T) {
	m := newTestManager(t, time.Hour)
	boom := errors.New("store unavailable")
	a := NewTokenAuthenticator(m, &fakeUserLookup{err: boom})

	token, _, err := m.GenerateToken(42, "alice", models.RoleEmployee)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Resolve(context.Background(), token); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped store error", err)
	}
}

func TestResolveHonorsContext(t *testing.T) {
	m := newTestManager(t, time.Hour)
	a := NewTokenAuthenticator(m, &fakeUserLookup{users: map[int64]*models.User{
		42: {ID: 42, Username: "alice", Role: models.RoleEmployee},
	}})

	token, _, err := m.GenerateToken(42, "alice", models.RoleEmployee)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Resolve(ctx, token); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
