// Package metrics defines and registers all custom Prometheus metrics for the
// user directory API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "rejected", "invalid" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RateLimitedTotal counts requests rejected by the login rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)

// ── Lifecycle event metrics ───────────────────────────────────────────────────

// LifecycleEventsPublishedTotal counts events accepted by the dispatcher.
// Label:
//   - type: "user.created", "user.updated" or "user.removed"
var LifecycleEventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lifecycle_events_published_total",
		Help:      "Total number of lifecycle events accepted for delivery.",
	},
	[]string{"type"},
)

// LifecycleEventsDroppedTotal counts events discarded because a worker buffer
// was full. Delivery is best effort; a growing value means subscribers are slow.
var LifecycleEventsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lifecycle_events_dropped_total",
		Help:      "Total number of lifecycle events dropped before delivery.",
	},
	[]string{"type"},
)

// LifecycleEventsDeliveredTotal counts events handed to subscribers.
var LifecycleEventsDeliveredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lifecycle_events_delivered_total",
		Help:      "Total number of lifecycle events delivered to subscribers.",
	},
	[]string{"type"},
)

// LifecycleEventsSkippedTotal counts events another replica already delivered.
var LifecycleEventsSkippedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lifecycle_events_skipped_total",
		Help:      "Total number of lifecycle events skipped by the once-only marker.",
	},
	[]string{"type"},
)

// LifecycleQueueDepth tracks the current number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var LifecycleQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "lifecycle_queue_depth",
		Help:      "Current number of lifecycle events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
