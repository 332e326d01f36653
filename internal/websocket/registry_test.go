// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package websocket

import (
	"fmt"
	"sync"
	"testing"
)

func newBareClient() *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		send: make(chan []byte, 8),
	}
}

func TestGroupKeys(t *testing.T) {
	if got := UserGroup(42); got != "user:42" {
		t.Errorf("UserGroup(42) = %q", got)
	}
	if got := RoomGroup("p_1_2"); got != "room:p_1_2" {
		t.Errorf("RoomGroup(p_1_2) = %q", got)
	}
}

func TestRegistryAddIdempotent(t *testing.T) {
	r := NewRegistry()
	c := newBareClient()

	r.Add("room:r1", c)
	r.Add("room:r1", c)

	if n := r.GroupSize("room:r1"); n != 1 {
		t.Errorf("GroupSize = %d, want 1 after duplicate Add", n)
	}
	if n := len(r.Snapshot("room:r1")); n != 1 {
		t.Errorf("Snapshot len = %d, want 1", n)
	}
}

func TestRegistryRemoveAbsent(t *testing.T) {
	r := NewRegistry()
	c := newBareClient()

	// Neither the group nor the connection exists; both must be no-ops.
	r.Remove("room:r1", c)
	r.RemoveAll(c)

	r.Add("room:r1", c)
	r.Remove("room:r1", c)
	r.Remove("room:r1", c)

	if n := r.GroupSize("room:r1"); n != 0 {
		t.Errorf("GroupSize = %d, want 0", n)
	}
	if n := r.ConnectionCount(); n != 0 {
		t.Errorf("ConnectionCount = %d, want 0", n)
	}
}

func TestRegistrySnapshotScoped(t *testing.T) {
	r := NewRegistry()
	a, b, c := newBareClient(), newBareClient(), newBareClient()

	r.Add("room:r1", a)
	r.Add("room:r1", b)
	r.Add("room:r2", c)

	snap := r.Snapshot("room:r1")
	if len(snap) != 2 {
		t.Fatalf("Snapshot len = %d, want 2", len(snap))
	}
	for _, member := range snap {
		if member == c {
			t.Error("snapshot of r1 contains a member of r2")
		}
	}
	if len(r.Snapshot("room:empty")) != 0 {
		t.Error("snapshot of unknown group not empty")
	}
}

func TestRegistrySnapshotOrdered(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 10; i++ {
		r.Add("room:r1", newBareClient())
	}

	snap := r.Snapshot("room:r1")
	for i := 1; i < len(snap); i++ {
		if snap[i-1].id >= snap[i].id {
			t.Fatalf("snapshot not ordered by id at %d", i)
		}
	}
}

func TestRegistryRemoveAllEveryGroup(t *testing.T) {
	r := NewRegistry()
	c := newBareClient()
	other := newBareClient()

	r.Add("room:r1", c)
	r.Add("user:7", c)
	r.Add("room:r1", other)

	r.RemoveAll(c)
	if n := r.GroupSize("user:7"); n != 0 {
		t.Errorf("user:7 size = %d, want 0", n)
	}
	if n := r.GroupSize("room:r1"); n != 1 {
		t.Errorf("room:r1 size = %d, want 1 (other client remains)", n)
	}

	// Double-disconnect is safe.
	r.RemoveAll(c)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			group := fmt.Sprintf("room:r%d", n%4)
			for j := 0; j < 100; j++ {
				c := newBareClient()
				r.Add(group, c)
				_ = r.Snapshot(group)
				r.RemoveAll(c)
			}
		}(i)
	}
	wg.Wait()

	if n := r.ConnectionCount(); n != 0 {
		t.Errorf("ConnectionCount = %d, want 0 after churn", n)
	}
}
