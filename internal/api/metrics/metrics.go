// Package metrics defines and registers all custom Prometheus metrics for the
// BeSide API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// via promauto; the /metrics endpoint exposes them alongside the HTTP metrics
// collected by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "beside"

// ── Credential metrics ────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts that reached the store.
// Label:
//   - result: "created" or "duplicate"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registrations, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" (bad credentials) or "inactive"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts bearer tokens the access guard refused.
// Label:
//   - reason: "missing", "invalid", "expired", "principal_not_found" or "inactive"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of rejected bearer tokens, by reason.",
	},
	[]string{"reason"},
)

// PasswordHashDuration measures bcrypt work.
// Label:
//   - op: "hash" or "verify"
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hashing and comparison.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"op"},
)

// ── Verification metrics ──────────────────────────────────────────────────────

// VerificationsTotal counts identity verification outcomes.
// Label:
//   - result: "verified", "no_match", "already_verified" or "error"
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Total number of identity verification attempts, by result.",
	},
	[]string{"result"},
)

// ── Trip metrics ──────────────────────────────────────────────────────────────

// TripsCreatedTotal counts newly created trips.
// Label:
//   - mode: "walk", "car", "transit" or "flight"
var TripsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trips_created_total",
		Help:      "Total number of trips created, by travel mode.",
	},
	[]string{"mode"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// MailSentTotal counts e-mail delivery attempts made by the mail dispatcher.
// Label:
//   - result: "sent", "failed" or "dropped"
var MailSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mail_sent_total",
		Help:      "Total number of e-mail delivery attempts, by result.",
	},
	[]string{"result"},
)

// MailQueueDepth tracks messages waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of e-mails pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// MailDeliveryDuration measures how long a single delivery takes.
var MailDeliveryDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mail_delivery_duration_seconds",
		Help:      "Duration of a single e-mail delivery, from dequeue to SMTP acknowledgement.",
		Buckets:   prometheus.DefBuckets,
	},
)
