// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

// Package store persists users, chat rooms, messages, notifications and
// password-reset codes in BadgerDB. Records are stored as JSON values under
// typed key prefixes; numeric ids come from Badger sequences so they survive
// restarts and stay monotonic per record type.
package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/config"
)

// Key prefixes. Keys that need ordered iteration embed a zero-padded id so
// byte order matches numeric order.
const (
	userKeyPrefix      = "user:"
	userNameKeyPrefix  = "user_name:"
	userEmailKeyPrefix = "user_email:"
	roomKeyPrefix      = "room:"
	roomUserKeyPrefix  = "room_user:"
	msgKeyPrefix       = "msg:"
	notifKeyPrefix     = "notif:"
	otpKeyPrefix       = "otp:"
)

// seqBandwidth is how many ids each sequence leases at a time. Unused ids in
// a lease are lost on shutdown, leaving gaps, which is acceptable.
const seqBandwidth = 128

// Store owns the Badger database and the id sequences shared by the typed
// stores built on top of it.
type Store struct {
	db *badger.DB

	userSeq  *badger.Sequence
	roomSeq  *badger.Sequence
	msgSeq   *badger.Sequence
	notifSeq *badger.Sequence
}

// Open opens (or creates) the database per the configuration. InMemory is
// for tests and ephemeral deployments.
func Open(cfg *config.DatabaseConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := &Store{db: db}
	for _, seq := range []struct {
		name string
		dst  **badger.Sequence
	}{
		{"seq:user", &s.userSeq},
		{"seq:room", &s.roomSeq},
		{"seq:msg", &s.msgSeq},
		{"seq:notif", &s.notifSeq},
	} {
		sq, err := db.GetSequence([]byte(seq.name), seqBandwidth)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("get sequence %s: %w", seq.name, err)
		}
		*seq.dst = sq
	}

	return s, nil
}

// Close releases the id sequences and closes the database.
func (s *Store) Close() error {
	for _, seq := range []*badger.Sequence{s.userSeq, s.roomSeq, s.msgSeq, s.notifSeq} {
		if seq != nil {
			_ = seq.Release()
		}
	}
	return s.db.Close()
}

// DB exposes the underlying database for maintenance tasks.
func (s *Store) DB() *badger.DB {
	return s.db
}

// nextID draws the next id from a sequence. Sequences start at 0 but ids
// start at 1 so a zero id always means "unset".
func nextID(seq *badger.Sequence) (int64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, fmt.Errorf("next id: %w", err)
	}
	return int64(n) + 1, nil
}

// idKey builds a key with a zero-padded numeric component so lexicographic
// iteration follows id order.
func idKey(prefix string, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, id))
}
