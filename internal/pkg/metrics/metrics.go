// Package metrics defines and registers the custom Prometheus metrics of the
// eventzone API. Metrics are registered with the default registry on import;
// HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventzone"

// ── Login ─────────────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "user_not_found", "bad_credentials", "throttled", "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Request interception ──────────────────────────────────────────────────────

// RequestsRejectedTotal counts requests stopped before reaching a handler.
// Label:
//   - reason: machine code of the rejection (e.g. "TOKEN_EXPIRED", "FORBIDDEN")
var RequestsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "requests_rejected_total",
		Help:      "Total number of requests rejected by authentication or access policy.",
	},
	[]string{"reason"},
)

// PolicyDecisionsTotal counts access policy evaluations.
// Labels:
//   - decision: "allow" or "deny"
//   - reason: policy reason (e.g. "role_granted", "missing_role", "no_matching_rule")
var PolicyDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "policy_decisions_total",
		Help:      "Total number of access policy decisions.",
	},
	[]string{"decision", "reason"},
)

// ── Audit trail ───────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events by outcome.
// Label:
//   - result: "stored", "error", "invalid", "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "audit",
		Name:      "events_total",
		Help:      "Total number of authentication audit events, by outcome.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the events waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "audit",
		Name:      "queue_depth",
		Help:      "Current number of audit events pending in each worker channel.",
	},
	[]string{"worker_id"},
)
