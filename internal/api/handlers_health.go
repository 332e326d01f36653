// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

package api

import (
	"net/http"
	"time"
)

// Health handles GET /api/v1/health. Liveness only: the process is up.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"connections":    h.hub.Registry().ConnectionCount(),
	})
}

// Ready handles GET /api/v1/health/ready. Readiness requires the store to
// be open; a closed store means shutdown is in progress.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	if h.kv == nil || h.kv.DB().IsClosed() {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Store is not open", nil)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
}
