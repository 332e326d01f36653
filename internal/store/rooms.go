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

// RoomStore persists chat rooms keyed by name. A per-user membership index
// (room_user:{userID}:{name}) backs ListForUser and IsParticipant without
// scanning every room.
type RoomStore struct {
	store *Store
}

// NewRoomStore returns the room store backed by s.
func NewRoomStore(s *Store) *RoomStore {
	return &RoomStore{store: s}
}

func roomKey(name string) []byte {
	return []byte(roomKeyPrefix + name)
}

func roomUserKey(userID int64, name string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", roomUserKeyPrefix, userID, name))
}

// EnsurePrivateRoom returns the 1:1 room between two users, creating it on
// first use. Both orderings of the pair map to the same room.
func (s *RoomStore) EnsurePrivateRoom(ctx context.Context, a, b int64) (*models.ChatRoom, error) {
	defer metrics.ObserveStoreOp("rooms", "ensure_private", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a == b {
		return nil, fmt.Errorf("cannot open a private room with yourself")
	}

	name := models.PrivateRoomName(a, b)
	room, err := s.GetByName(ctx, name)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	id, err := nextID(s.store.roomSeq)
	if err != nil {
		return nil, err
	}
	room = &models.ChatRoom{
		ID:           id,
		Name:         name,
		IsGroup:      false,
		Participants: []int64{min(a, b), max(a, b)},
		CreatedAt:    time.Now().UTC(),
	}

	err = s.store.db.Update(func(txn *badger.Txn) error {
		// Another request may have created the room between our read and
		// this write; keep the stored record in that case.
		if _, err := txn.Get(roomKey(name)); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return s.writeRoom(txn, room)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByName(ctx, name)
}

// CreateGroupRoom creates a named group room. The creator is always a
// participant. Returns models.ErrDuplicate when the name is taken.
func (s *RoomStore) CreateGroupRoom(ctx context.Context, room *models.ChatRoom, creatorID int64) error {
	defer metrics.ObserveStoreOp("rooms", "create_group", time.Now())
	if err := ctx.Err(); err != nil {
		return err
	}
	if !models.ValidRoomName(room.Name) {
		return fmt.Errorf("invalid room name %q", room.Name)
	}

	if !room.HasParticipant(creatorID) {
		room.Participants = append(room.Participants, creatorID)
	}

	id, err := nextID(s.store.roomSeq)
	if err != nil {
		return err
	}
	room.ID = id
	room.IsGroup = true
	room.CreatedAt = time.Now().UTC()

	return s.store.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(roomKey(room.Name)); err == nil {
			return fmt.Errorf("room %q: %w", room.Name, models.ErrDuplicate)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return s.writeRoom(txn, room)
	})
}

// writeRoom stores the room record and its membership index entries.
func (s *RoomStore) writeRoom(txn *badger.Txn, room *models.ChatRoom) error {
	if err := setJSON(txn, roomKey(room.Name), room); err != nil {
		return fmt.Errorf("set room: %w", err)
	}
	for _, userID := range room.Participants {
		if err := txn.Set(roomUserKey(userID, room.Name), []byte(room.Name)); err != nil {
			return fmt.Errorf("set membership index: %w", err)
		}
	}
	return nil
}

// GetByName fetches a room by name. Returns models.ErrNotFound when absent.
func (s *RoomStore) GetByName(ctx context.Context, name string) (*models.ChatRoom, error) {
	defer metrics.ObserveStoreOp("rooms", "get_by_name", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var room models.ChatRoom
	err := s.store.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, roomKey(name), &room)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("room %q: %w", name, models.ErrNotFound)
		}
		return nil, err
	}
	return &room, nil
}

// AddParticipant adds a user to a group room's durable membership. Adding an
// existing participant is a no-op. Private rooms are fixed at two members.
func (s *RoomStore) AddParticipant(ctx context.Context, name string, userID int64) (*models.ChatRoom, error) {
	defer metrics.ObserveStoreOp("rooms", "add_participant", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var room models.ChatRoom
	err := s.store.db.Update(func(txn *badger.Txn) error {
		if err := getJSON(txn, roomKey(name), &room); err != nil {
			return err
		}
		if !room.IsGroup {
			return fmt.Errorf("room %q is private: %w", name, models.ErrForbidden)
		}
		if room.HasParticipant(userID) {
			return nil
		}
		room.Participants = append(room.Participants, userID)
		if err := setJSON(txn, roomKey(name), &room); err != nil {
			return err
		}
		return txn.Set(roomUserKey(userID, name), []byte(name))
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("room %q: %w", name, models.ErrNotFound)
		}
		return nil, err
	}
	return &room, nil
}

// IsParticipant reports whether userID belongs to the named room. It reads
// only the membership index, so it stays cheap under handshake deadlines.
func (s *RoomStore) IsParticipant(ctx context.Context, userID int64, name string) (bool, error) {
	defer metrics.ObserveStoreOp("rooms", "is_participant", time.Now())
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var member bool
	err := s.store.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(roomUserKey(userID, name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		member = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return member, nil
}

// ListForUser returns every room the user belongs to.
func (s *RoomStore) ListForUser(ctx context.Context, userID int64) ([]*models.ChatRoom, error) {
	defer metrics.ObserveStoreOp("rooms", "list_for_user", time.Now())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(fmt.Sprintf("%s%020d:", roomUserKeyPrefix, userID))
	var rooms []*models.ChatRoom
	err := s.store.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var name string
			if err := it.Item().Value(func(val []byte) error {
				name = string(val)
				return nil
			}); err != nil {
				return err
			}

			var room models.ChatRoom
			item, err := txn.Get(roomKey(name))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &room)
			}); err != nil {
				return err
			}
			rooms = append(rooms, &room)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}
