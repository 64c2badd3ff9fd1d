// Package metrics defines and registers the custom Prometheus metrics of the
// marketplace API. It is the single source of truth for metric names, labels
// and help strings. All collectors register with the default registry on
// package initialisation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gharun"

// ── Shell metrics ─────────────────────────────────────────────────────────────

// NavigationTotal counts explicit navigation requests.
// Labels:
//   - target: the requested target, or "other" for plain view names
//   - outcome: "view", "modal", "notice" or "redirect_home"
var NavigationTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "navigation_total",
		Help:      "Total number of explicit navigation requests, by target and outcome.",
	},
	[]string{"target", "outcome"},
)

// AutoRedirectsTotal counts views chosen by the derived-effect rules.
// Label:
//   - rule: "ops_dashboard", "ops_login", "post_login" or "sign_out"
var AutoRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auto_redirects_total",
		Help:      "Total number of automatic view changes, by rule.",
	},
	[]string{"rule"},
)

// EntryDetectionsTotal counts entry links observed on load.
// Label:
//   - kind: "setup", "ops" or "ops_restored"
var EntryDetectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entry_detections_total",
		Help:      "Total number of setup and ops entries detected.",
	},
	[]string{"kind"},
)

// SessionFlagErrorsTotal counts swallowed session storage failures.
var SessionFlagErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_flag_errors_total",
		Help:      "Total number of session flag reads or writes that failed.",
	},
)

// ── Auth and terms metrics ────────────────────────────────────────────────────

// LoginAttemptsTotal counts sign-in attempts.
// Labels:
//   - surface: "public" or "internal"
//   - result: "success", "invalid" or "locked"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of sign-in attempts, by surface and result.",
	},
	[]string{"surface", "result"},
)

// TermsGateTotal counts gate decisions.
// Label:
//   - result: "accepted", "pending", "error", "recorded" or "consent_missing"
var TermsGateTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "terms_gate_total",
		Help:      "Total number of terms gate checks and acceptances, by result.",
	},
	[]string{"result"},
)

// ── Request and notification metrics ──────────────────────────────────────────

// RequestsSubmittedTotal counts newly submitted service requests.
// Label:
//   - category: the service category (e.g. "plumbing")
var RequestsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_submitted_total",
		Help:      "Total number of service requests submitted, by category.",
	},
	[]string{"category"},
)

// NotificationsSentTotal counts notifications accepted by the email function.
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of notifications delivered, by event.",
	},
	[]string{"event"},
)

// NotificationErrorsTotal counts notifications that failed.
// Label:
//   - reason: "send_failed", "duplicate" or "queue_full"
var NotificationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_errors_total",
		Help:      "Total number of notifications not delivered, by reason.",
	},
	[]string{"reason"},
)

// NotificationQueueDepth tracks pending notifications per dispatcher worker.
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDuration measures delivery time of a single notification.
var NotificationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of notification delivery from dequeue to completion.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"event"},
)
