// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/logging"
	"github.com/DarshitHirani10/Backend-only-HR-Management-System-API/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

// newHubClient registers a pump-less client with the hub under the given
// groups, so tests can read frames straight off its send channel.
func newHubClient(h *Hub, bufSize int, groups ...string) *Client {
	c := &Client{
		id:       clientIDCounter.Add(1),
		endpoint: endpointChat,
		groups:   groups,
		hub:      h,
		send:     make(chan []byte, bufSize),
	}
	h.Register(c)
	return c
}

func recvFrame(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.send:
		return data
	case <-time.After(time.Second):
		t.Fatal("no frame received within 1s")
		return nil
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected frame: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishDeliversToGroupOnly(t *testing.T) {
	h := NewHub()
	a := newHubClient(h, 8, "room:r1")
	b := newHubClient(h, 8, "room:r1")
	outsider := newHubClient(h, 8, "room:r2")

	n := h.Publish("room:r1", SystemFrame{Type: FrameSystem, Message: "hi"})
	if n != 2 {
		t.Errorf("delivered = %d, want 2", n)
	}

	for _, c := range []*Client{a, b} {
		var frame SystemFrame
		if err := json.Unmarshal(recvFrame(t, c), &frame); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if frame.Type != FrameSystem || frame.Message != "hi" {
			t.Errorf("frame = %+v", frame)
		}
	}
	assertNoFrame(t, outsider)
}

func TestPublishEmptyGroup(t *testing.T) {
	h := NewHub()
	if n := h.Publish("room:empty", SystemFrame{Type: FrameSystem}); n != 0 {
		t.Errorf("delivered = %d, want 0 for empty group", n)
	}
}

func TestPublishAfterUnregister(t *testing.T) {
	h := NewHub()
	c := newHubClient(h, 8, "room:r1", "user:9")

	h.Unregister(c)
	h.Unregister(c) // double-disconnect is safe

	if n := h.Publish("room:r1", SystemFrame{Type: FrameSystem}); n != 0 {
		t.Errorf("delivered = %d after unregister, want 0", n)
	}
	if n := h.Publish("user:9", SystemFrame{Type: FrameSystem}); n != 0 {
		t.Errorf("delivered = %d after unregister, want 0", n)
	}
}

func TestPublishSkipsFullBuffer(t *testing.T) {
	h := NewHub()
	full := newHubClient(h, 1, "room:r1")
	healthy := newHubClient(h, 8, "room:r1")

	// First publish fills the small buffer.
	if n := h.Publish("room:r1", SystemFrame{Type: FrameSystem, Message: "1"}); n != 2 {
		t.Fatalf("first publish delivered = %d, want 2", n)
	}
	// Second publish fails for the full client but reaches the healthy one.
	if n := h.Publish("room:r1", SystemFrame{Type: FrameSystem, Message: "2"}); n != 1 {
		t.Errorf("second publish delivered = %d, want 1", n)
	}
	_ = full
	recvFrame(t, healthy)
	recvFrame(t, healthy)
}

func TestServePrunesDeadConnections(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Serve(ctx) }()

	full := newHubClient(h, 1, "room:r1")
	h.Publish("room:r1", SystemFrame{Type: FrameSystem})
	h.Publish("room:r1", SystemFrame{Type: FrameSystem}) // overflows, marks dead

	deadline := time.Now().Add(time.Second)
	for h.Registry().GroupSize("room:r1") != 0 {
		if time.Now().After(deadline) {
			t.Fatal("dead connection was not pruned")
		}
		time.Sleep(5 * time.Millisecond)
	}
	_ = full

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve returned %v, want context.Canceled", err)
	}
}

func TestServeClosesAllOnShutdown(t *testing.T) {
	h := NewHub()
	a := newHubClient(h, 8, "room:r1")
	b := newHubClient(h, 8, "user:5")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Serve(ctx) }()
	cancel()
	<-done

	// Send channels are closed and the registry is empty.
	for _, c := range []*Client{a, b} {
		if _, ok := <-c.send; ok {
			t.Error("send channel still open after shutdown")
		}
	}
	if n := h.Registry().ConnectionCount(); n != 0 {
		t.Errorf("ConnectionCount = %d after shutdown, want 0", n)
	}
}

type fakeCreator struct {
	err     error
	created []*models.Notification
}

func (f *fakeCreator) Create(ctx context.Context, n *models.Notification) error {
	if f.err != nil {
		return f.err
	}
	n.ID = int64(len(f.created) + 1)
	n.CreatedAt = time.Now().UTC()
	f.created = append(f.created, n)
	return nil
}

func TestNotifierDurabilityBeforeVisibility(t *testing.T) {
	h := NewHub()
	c := newHubClient(h, 8, UserGroup(7))
	creator := &fakeCreator{}
	notifier := NewNotifier(h, creator)

	notif := &models.Notification{UserID: 7, Message: "Leave approved", Type: "leave"}
	if err := notifier.Notify(context.Background(), notif); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	var frame NewNotificationFrame
	if err := json.Unmarshal(recvFrame(t, c), &frame); err != nil {
		t.Fatal(err)
	}
	if frame.Type != FrameNewNotification {
		t.Errorf("type = %q", frame.Type)
	}
	if frame.Notification.ID != notif.ID {
		t.Errorf("broadcast id = %d, stored id = %d", frame.Notification.ID, notif.ID)
	}
}

func TestNotifierPersistenceFailureAbortsBroadcast(t *testing.T) {
	h := NewHub()
	c := newHubClient(h, 8, UserGroup(7))
	boom := errors.New("disk full")
	notifier := NewNotifier(h, &fakeCreator{err: boom})

	err := notifier.Notify(context.Background(), &models.Notification{UserID: 7, Message: "x"})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want store failure", err)
	}
	assertNoFrame(t, c)
}
