// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/metrics"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

// NotificationStore persists per-user notifications under
// notif:{userID}:{id} keys, so a user's notifications are a prefix scan in
// id order.
type NotificationStore struct {
	store *Store
}

// NewNotificationStore returns the notification store backed by s.
func NewNotificationStore(s *Store) *NotificationStore {
	return &NotificationStore{store: s}
}

func notifKey(userID, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:%020d", notifKeyPrefix, userID, id))
}

func notifPrefix(userID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:", notifKeyPrefix, userID))
}

// Create durably stores a notification, assigning its id and timestamp. The
// publish path persists through Create BEFORE broadcasting, so a client
// never sees a notification that a refresh would lose.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	defer metrics.ObserveStoreOp("notifications", "create", time.Now())
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.UserID == 0 {
		return fmt.Errorf("notification requires a recipient")
	}
	if n.Message == "" {
		return fmt.Errorf("notification message is required")
	}
	n.Type = models.NormalizeNotificationType(n.Type)

	id, err := nextID(s.store.notifSeq)
	if err != nil {
		return err
	}
	n.ID = id
	n.CreatedAt = time.Now().UTC()

	err = s.store.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, notifKey(n.UserID, n.ID), newNotifRecord(n))
	})
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// get fetches one notification record by its derivable full key.
func (s *NotificationStore) get(txn *badger.Txn, userID, id int64) (*notifRecord, error) {
	var rec notifRecord
	if err := getJSON(txn, notifKey(userID, id), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UnreadCount returns how many of the user's notifications are unread.
func (s *NotificationStore) UnreadCount(ctx context.Context, userID int64) (int, error) {
	defer metrics.ObserveStoreOp("notifications", "unread_count", time.Now())
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := s.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = notifPrefix(userID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec notifRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			if !rec.IsRead {
				count++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Recent returns up to limit of the user's newest notifications, newest
// first. limit <= 0 means no limit.
func (s *NotificationStore) Recent(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	defer metrics.ObserveStoreOp("notifications", "recent", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := notifPrefix(userID)
	var notifs []*models.Notification
	err := s.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, prefix...), 0xff)
		for it.Seek(seek); it.Valid(); it.Next() {
			if limit > 0 && len(notifs) == limit {
				break
			}
			var rec notifRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			notifs = append(notifs, rec.notification())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notifs, nil
}

// MarkRead marks one of the user's notifications as read. Marking an
// already-read notification is a no-op. Returns models.ErrNotFound when the
// notification does not exist or belongs to someone else.
func (s *NotificationStore) MarkRead(ctx context.Context, userID, id int64) (*models.Notification, error) {
	defer metrics.ObserveStoreOp("notifications", "mark_read", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var updated *models.Notification
	err := s.store.db.Update(func(txn *badger.Txn) error {
		rec, err := s.get(txn, userID, id)
		if err != nil {
			return err
		}
		if !rec.IsRead {
			rec.IsRead = true
			if err := setJSON(txn, notifKey(userID, id), rec); err != nil {
				return err
			}
		}
		updated = rec.notification()
		return nil
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("notification %d for user %d: %w", id, userID, models.ErrNotFound)
		}
		return nil, err
	}
	return updated, nil
}
