// Package metrics defines and registers all custom Prometheus metrics for the
// todo API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo_api"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "duplicate", "invalid_credentials" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of registration and login attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// TokenVerificationsTotal counts bearer tokens seen by the authentication middleware.
// Label:
//   - result: "valid", "expired", "invalid" or "unresolved"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// ── Todo metrics ──────────────────────────────────────────────────────────────

// TodoOperationsTotal counts todo use-case invocations.
// Labels:
//   - operation: "list", "create", "get", "update" or "delete"
//   - result: "success", "forbidden", "not_found" or "error"
var TodoOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "todo_operations_total",
		Help:      "Total number of todo operations, by outcome.",
	},
	[]string{"operation", "result"},
)
