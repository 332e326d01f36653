// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package websocket

import (
	"fmt"
	"sort"
	"sync"
)

// UserGroup is the group key of a user's private notification channel.
func UserGroup(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// RoomGroup is the group key of a chat room's broadcast channel.
func RoomGroup(name string) string {
	return "room:" + name
}

// Registry maps group keys to the set of live connections subscribed to
// them, with a reverse index so a dropping connection can be removed from
// every group it joined without scanning.
//
// All mutation goes through Add/Remove/RemoveAll; no caller touches the maps
// directly. Snapshots take a read lock, so concurrent publishes never block
// each other, and mutations are O(1) point updates.
type Registry struct {
	mu     sync.RWMutex
	groups map[string]map[*Client]struct{}
	conns  map[*Client]map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		groups: make(map[string]map[*Client]struct{}),
		conns:  make(map[*Client]map[string]struct{}),
	}
}

// Add subscribes a connection to a group. Adding the same pair twice is a
// no-op.
func (r *Registry) Add(group string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.groups[group]
	if !ok {
		members = make(map[*Client]struct{})
		r.groups[group] = members
	}
	members[c] = struct{}{}

	joined, ok := r.conns[c]
	if !ok {
		joined = make(map[string]struct{})
		r.conns[c] = joined
	}
	joined[group] = struct{}{}
}

// Remove unsubscribes a connection from a group. Removing an absent pair is
// a no-op, never an error.
func (r *Registry) Remove(group string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(group, c)
}

func (r *Registry) removeLocked(group string, c *Client) {
	if members, ok := r.groups[group]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(r.groups, group)
		}
	}
	if joined, ok := r.conns[c]; ok {
		delete(joined, group)
		if len(joined) == 0 {
			delete(r.conns, c)
		}
	}
}

// RemoveAll unsubscribes a connection from every group it joined. Safe to
// call for a connection that was never added, and safe to call twice.
func (r *Registry) RemoveAll(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for group := range r.conns[c] {
		if members, ok := r.groups[group]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(r.groups, group)
			}
		}
	}
	delete(r.conns, c)
}

// Snapshot returns the group's membership at call time, sorted by connection
// id for deterministic fan-out order. Membership may change concurrently
// with iteration; connections joining after the snapshot are not guaranteed
// that particular publish.
func (r *Registry) Snapshot(group string) []*Client {
	r.mu.RLock()
	members := r.groups[group]
	clients := make([]*Client, 0, len(members))
	for c := range members {
		clients = append(clients, c)
	}
	r.mu.RUnlock()

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// GroupSize reports the group's current membership count.
func (r *Registry) GroupSize(group string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups[group])
}

// ConnectionCount reports how many connections are registered anywhere.
func (r *Registry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// allConnections returns every registered connection, sorted by id. Used
// during shutdown.
func (r *Registry) allConnections() []*Client {
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.conns))
	for c := range r.conns {
		clients = append(clients, c)
	}
	r.mu.RUnlock()

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}
