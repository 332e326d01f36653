// HRMS Backend - HR Management System API
// Copyright 2026 Darshit Hirani (DarshitHirani10)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarshitHirani10/Backend-only-HR-Management-System-API

// Package metrics exposes Prometheus instrumentation for the HTTP API, the
// realtime layer and the Badger stores. Metrics register themselves with the
// default registry via promauto; /metrics serves them.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Realtime metrics
	WSActiveConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hrms_ws_active_connections",
			Help: "Currently open WebSocket connections by endpoint (chat, notifications)",
		},
		[]string{"endpoint"},
	)

	WSHandshakeRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrms_ws_handshake_rejections_total",
			Help: "WebSocket handshakes rejected, labeled by close code",
		},
		[]string{"endpoint", "code"},
	)

	WSPublishes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrms_ws_publishes_total",
			Help: "Broadcast publish calls by group kind (user, room)",
		},
		[]string{"kind"},
	)

	WSDeliveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hrms_ws_deliveries_total",
			Help: "Frames enqueued to connection send buffers",
		},
	)

	WSDeliveryFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hrms_ws_delivery_failures_total",
			Help: "Frames dropped because a connection send buffer was full",
		},
	)

	WSInboundFrames = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hrms_ws_inbound_frames_total",
			Help: "Inbound client frames by action",
		},
		[]string{"action"},
	)

	// Store metrics
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hrms_store_op_duration_seconds",
			Help:    "Duration of Badger store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store", "op"},
	)

	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hrms_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hrms_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)

	// Cross-instance relay metrics
	RelayPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hrms_relay_published_total",
			Help: "Envelopes published to the NATS relay",
		},
	)

	RelayReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hrms_relay_received_total",
			Help: "Envelopes received from the NATS relay, own echoes excluded",
		},
	)
)

// ObserveStoreOp records one store operation.
func ObserveStoreOp(store, op string, start time.Time) {
	StoreOpDuration.WithLabelValues(store, op).Observe(time.Since(start).Seconds())
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, path string, status int, start time.Time) {
	HTTPRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).
		Observe(time.Since(start).Seconds())
}

// RejectionCode converts a close code for use as a label value.
func RejectionCode(code int) string {
	return strconv.Itoa(code)
}
