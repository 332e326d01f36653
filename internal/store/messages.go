// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/metrics"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

// MessageStore persists chat messages. Keys embed the room name and the
// padded message id (msg:{room}:{id}), so per-room iteration in id order is
// a prefix scan.
type MessageStore struct {
	store *Store
	users *UserStore
	rooms *RoomStore
}

// NewMessageStore returns the message store backed by s.
func NewMessageStore(s *Store, users *UserStore, rooms *RoomStore) *MessageStore {
	return &MessageStore{store: s, users: users, rooms: rooms}
}

func msgKey(roomName string, id int64) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d", msgKeyPrefix, roomName, id))
}

// Append durably stores a message in the named room and returns the full
// record, id and timestamp assigned. The send path persists through Append
// BEFORE broadcasting, so no recipient ever sees a message that is not on
// disk.
func (s *MessageStore) Append(ctx context.Context, roomName string, senderID int64, content, contentType string) (*models.Message, error) {
	defer metrics.ObserveStoreOp("messages", "append", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if content == "" {
		return nil, fmt.Errorf("message content is required")
	}
	if contentType == "" {
		contentType = "text"
	}

	room, err := s.rooms.GetByName(ctx, roomName)
	if err != nil {
		return nil, err
	}
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	id, err := nextID(s.store.msgSeq)
	if err != nil {
		return nil, err
	}
	msg := &models.Message{
		ID:          id,
		RoomID:      room.ID,
		SenderID:    sender.ID,
		Sender:      sender.Username,
		Content:     content,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}

	err = s.store.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, msgKey(roomName, id), newMessageRecord(msg))
	})
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

// ListRoom returns up to limit of the room's most recent messages in
// ascending id order. limit <= 0 means no limit.
func (s *MessageStore) ListRoom(ctx context.Context, roomName string, limit int) ([]*models.Message, error) {
	defer metrics.ObserveStoreOp("messages", "list_room", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.rooms.GetByName(ctx, roomName); err != nil {
		return nil, err
	}

	prefix := []byte(msgKeyPrefix + roomName + ":")
	var msgs []*models.Message
	err := s.store.db.View(func(txn *badger.Txn) error {
		// Iterate newest-first so the limit keeps the most recent messages.
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration must seek past the last key in the prefix range.
		seek := append(append([]byte{}, prefix...), 0xff)
		for it.Seek(seek); it.Valid(); it.Next() {
			if limit > 0 && len(msgs) == limit {
				break
			}
			var rec messageRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			msgs = append(msgs, rec.message())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Flip back to ascending order for the response.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
