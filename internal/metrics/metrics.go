// Package metrics defines the Prometheus metrics exported on /metrics.
// All metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "choreboard"

// ── AI metrics ────────────────────────────────────────────────────────────────

// AIRequestsTotal counts planner operations that call the model.
// Labels:
//   - operation: "reorder", "rebalance" or "tips"
//   - outcome: "ok", "not_running", "unavailable", "malformed" or "error"
var AIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_requests_total",
		Help:      "Total number of AI planner operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// AIRequestDuration measures the model call for each operation.
var AIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ai_request_duration_seconds",
		Help:      "Duration of model generate calls.",
		Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	},
	[]string{"operation"},
)

// AIOrderingFallbacksTotal counts reorder replies that contained no usable
// id list, so the input order was kept.
var AIOrderingFallbacksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_ordering_fallbacks_total",
		Help:      "Total number of reorder replies that fell back to the input order.",
	},
)

// ── Chore metrics ─────────────────────────────────────────────────────────────

// PriorityUpdatesTotal counts priority writes made by reorder.
var PriorityUpdatesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "priority_updates_total",
		Help:      "Total number of chore priorities rewritten by reorder.",
	},
)

// ReassignmentsTotal counts reassignment suggestions.
// Label:
//   - result: "applied" or "skipped"
var ReassignmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reassignments_total",
		Help:      "Total number of reassignment suggestions, by result.",
	},
	[]string{"result"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts served requests.
// Labels:
//   - method: HTTP method
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method and status.",
	},
	[]string{"method", "status"},
)

// HTTPRequestDuration measures request handling time.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP request handling.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// LoginThrottledTotal counts login attempts rejected by the rate limiter.
var LoginThrottledTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_throttled_total",
		Help:      "Total number of login attempts rejected for exceeding the rate limit.",
	},
)

// ── Maintenance metrics ───────────────────────────────────────────────────────

// SessionsPurgedTotal counts expired sessions removed by the cleanup job.
var SessionsPurgedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_purged_total",
		Help:      "Total number of expired sessions deleted.",
	},
)

// RecurringReopenedTotal counts completed recurring chores reopened for
// their next cycle.
var RecurringReopenedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recurring_reopened_total",
		Help:      "Total number of recurring chores reopened for a new cycle.",
	},
)

// ChoresOverdue is the number of open chores past their due date, as of the
// last housekeeping run.
var ChoresOverdue = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "chores_overdue",
		Help:      "Open chores whose due date has passed.",
	},
)

// BackupsTotal counts database backups.
// Labels:
//   - outcome: "ok" or "error"
var BackupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backups_total",
		Help:      "Total number of database backups, by outcome.",
	},
	[]string{"outcome"},
)

// BackupLastSuccess is the Unix time of the last successful backup.
var BackupLastSuccess = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backup_last_success_timestamp_seconds",
		Help:      "Unix time of the last successful database backup.",
	},
)

// PushNotificationsTotal counts web push deliveries.
// Labels:
//   - outcome: "sent", "expired" or "error"
var PushNotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_notifications_total",
		Help:      "Total number of web push deliveries, by outcome.",
	},
	[]string{"outcome"},
)
