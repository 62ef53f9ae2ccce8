// Package metrics defines and registers all custom Prometheus metrics for the
// backstage auth API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at import time via promauto; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backstage"

// ── Auth flow metrics ─────────────────────────────────────────────────────────

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created through registration.",
	},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "failure", "suspended", or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts minted tokens.
// Label:
//   - kind: "access" or "refresh"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of tokens minted, by kind.",
	},
	[]string{"kind"},
)

// PasswordResetsTotal counts completed password resets.
var PasswordResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of completed password resets.",
	},
)

// ── Gate metrics ──────────────────────────────────────────────────────────────

// GateDenialsTotal counts requests rejected by an authorization gate.
// Label:
//   - gate: "api_key", "bearer", "active", or "admin"
var GateDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_denials_total",
		Help:      "Total number of requests rejected by each authorization gate.",
	},
	[]string{"gate"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts notification deliveries by kind and result.
// Labels:
//   - kind: "registration", "password_reset", or "startup"
//   - result: "sent" or "error"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notification deliveries, by kind and result.",
	},
	[]string{"kind", "result"},
)

// NotifyQueueDepth tracks the number of notices waiting in each dispatcher
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotifyQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notify_queue_depth",
		Help:      "Current number of notices pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
