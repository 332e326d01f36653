// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

// Package websocket implements the realtime layer: a connection registry and
// broadcast router that pushes chat messages and notifications to connected
// clients.
//
// # Architecture
//
// Three pieces cooperate:
//
//   - Registry maps group keys to the set of live connections subscribed to
//     them. Groups are either a per-user notification channel ("user:{id}",
//     one logical group per user, possibly several devices) or a per-room
//     chat channel ("room:{name}").
//
//   - Hub is the publish-side entry point. Publish serializes a frame once
//     and enqueues it to every connection in the group's registry snapshot.
//     Sends are non-blocking; a slow or dead peer is pruned asynchronously
//     and never delays delivery to its siblings.
//
//   - Gateway upgrades inbound HTTP requests, runs the authenticate/authorize
//     handshake, registers the connection, and owns its lifecycle until
//     close. Rejections use distinct close codes: 4001 for a missing or
//     malformed target group, 4003 for authentication failures, 4004 for
//     membership failures. Authentication and membership checks are bounded
//     by a timeout; exceeding it rejects exactly like an explicit failure.
//
// # Durability boundary
//
// A send_message frame is appended to the message store before any broadcast
// is attempted. If the append fails the broadcast is skipped and only the
// sender sees an error frame. Delivery itself is best-effort: the store is
// the ordering and durability authority, the transport is not.
//
// # Shutdown
//
// Hub.Serve runs under the supervision tree. When its context is canceled it
// closes every connection and discards pending sends rather than blocking on
// them.
package websocket
