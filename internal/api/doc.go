// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

// Package api implements the HTTP surface of the HRMS backend: the chi
// router, the REST handlers, and the request middleware (CORS, rate
// limiting, bearer-token authentication).
//
// Every JSON endpoint responds with the models.APIResponse envelope. The
// websocket endpoints under /ws are routed here but handled by the
// websocket.Gateway, which speaks close codes instead of HTTP statuses
// once the connection is upgraded.
package api
