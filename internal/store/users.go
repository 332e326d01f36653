// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/metrics"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

// UserStore persists user accounts. Usernames and emails are unique; both
// are indexed with pointer keys that hold the padded user id.
type UserStore struct {
	store *Store
}

// NewUserStore returns the user store backed by s.
func NewUserStore(s *Store) *UserStore {
	return &UserStore{store: s}
}

// Create persists a new user. The caller supplies the bcrypt hash in
// PasswordHash; ID and CreatedAt are assigned here. Returns
// models.ErrDuplicate when the username or email is taken.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveStoreOp("users", "create", time.Now())
	if user.Username == "" {
		return fmt.Errorf("username is required")
	}
	user.Username = strings.ToLower(user.Username)
	user.Email = strings.ToLower(user.Email)

	id, err := nextID(s.store.userSeq)
	if err != nil {
		return err
	}
	user.ID = id
	user.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(newUserRecord(user))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return s.store.db.Update(func(txn *badger.Txn) error {
		nameKey := []byte(userNameKeyPrefix + user.Username)
		if _, err := txn.Get(nameKey); err == nil {
			return fmt.Errorf("username %q: %w", user.Username, models.ErrDuplicate)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check username: %w", err)
		}

		var emailKey []byte
		if user.Email != "" {
			emailKey = []byte(userEmailKeyPrefix + user.Email)
			if _, err := txn.Get(emailKey); err == nil {
				return fmt.Errorf("email %q: %w", user.Email, models.ErrDuplicate)
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check email: %w", err)
			}
		}

		if err := txn.Set(idKey(userKeyPrefix, user.ID), data); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		idVal := idKey("", user.ID)
		if err := txn.Set(nameKey, idVal); err != nil {
			return fmt.Errorf("set username index: %w", err)
		}
		if emailKey != nil {
			if err := txn.Set(emailKey, idVal); err != nil {
				return fmt.Errorf("set email index: %w", err)
			}
		}
		return nil
	})
}

// GetByID fetches a user by id. Returns models.ErrNotFound when absent.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	defer metrics.ObserveStoreOp("users", "get_by_id", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec userRecord
	err := s.store.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, idKey(userKeyPrefix, id), &rec)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
		}
		return nil, err
	}
	return rec.user(), nil
}

// GetByUsername fetches a user through the username index.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	defer metrics.ObserveStoreOp("users", "get_by_username", time.Now())
	return s.getByIndex(ctx, userNameKeyPrefix, strings.ToLower(username))
}

// GetByEmail fetches a user through the email index.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.ObserveStoreOp("users", "get_by_email", time.Now())
	return s.getByIndex(ctx, userEmailKeyPrefix, strings.ToLower(email))
}

func (s *UserStore) getByIndex(ctx context.Context, prefix, key string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, fmt.Errorf("empty lookup key: %w", models.ErrNotFound)
	}

	var rec userRecord
	err := s.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefix + key))
		if err != nil {
			return err
		}
		var userKey []byte
		if err := item.Value(func(val []byte) error {
			userKey = append([]byte(userKeyPrefix), val...)
			return nil
		}); err != nil {
			return err
		}
		return getJSON(txn, userKey, &rec)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("user %q: %w", key, models.ErrNotFound)
		}
		return nil, err
	}
	return rec.user(), nil
}

// Update applies an allow-listed partial update and returns the updated
// record. Fields outside models.UserUpdate cannot be changed this way.
func (s *UserStore) Update(ctx context.Context, id int64, upd *models.UserUpdate) (*models.User, error) {
	defer metrics.ObserveStoreOp("users", "update", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec userRecord
	err := s.store.db.Update(func(txn *badger.Txn) error {
		if err := getJSON(txn, idKey(userKeyPrefix, id), &rec); err != nil {
			return err
		}

		oldEmail := rec.Email
		if upd.FullName != nil {
			rec.FullName = *upd.FullName
		}
		if upd.Department != nil {
			rec.Department = *upd.Department
		}
		if upd.Email != nil {
			rec.Email = strings.ToLower(*upd.Email)
		}

		if rec.Email != oldEmail {
			if rec.Email != "" {
				if _, err := txn.Get([]byte(userEmailKeyPrefix + rec.Email)); err == nil {
					return fmt.Errorf("email %q: %w", rec.Email, models.ErrDuplicate)
				} else if !errors.Is(err, badger.ErrKeyNotFound) {
					return err
				}
				if err := txn.Set([]byte(userEmailKeyPrefix+rec.Email), idKey("", id)); err != nil {
					return err
				}
			}
			if oldEmail != "" {
				if err := txn.Delete([]byte(userEmailKeyPrefix + oldEmail)); err != nil {
					return err
				}
			}
		}

		return setJSON(txn, idKey(userKeyPrefix, id), &rec)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
		}
		return nil, err
	}
	return rec.user(), nil
}

// UpdatePassword replaces the stored bcrypt hash.
func (s *UserStore) UpdatePassword(ctx context.Context, id int64, hash string) error {
	defer metrics.ObserveStoreOp("users", "update_password", time.Now())
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.store.db.Update(func(txn *badger.Txn) error {
		var rec userRecord
		if err := getJSON(txn, idKey(userKeyPrefix, id), &rec); err != nil {
			return err
		}
		rec.PasswordHash = hash
		return setJSON(txn, idKey(userKeyPrefix, id), &rec)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	return err
}

// List returns all users in id order.
func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	defer metrics.ObserveStoreOp("users", "list", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var users []*models.User
	err := s.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(userKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec userRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			users = append(users, rec.user())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// getJSON reads and unmarshals a JSON value. Badger's ErrKeyNotFound passes
// through for the caller to translate.
func getJSON(txn *badger.Txn, key []byte, dst interface{}) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

// setJSON marshals and writes a JSON value.
func setJSON(txn *badger.Txn, key []byte, src interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	return txn.Set(key, data)
}
