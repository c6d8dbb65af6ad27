// Package metrics defines and registers all custom Prometheus metrics for the
// hoarding dashboard. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import via
// promauto; the BFF exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hoarding_dashboard"

// ── Upstream metrics ──────────────────────────────────────────────────────────

// UpstreamRequestDuration measures round trips to the REST backend.
// Labels:
//   - method: HTTP method
//   - route:  first two path segments (e.g. "/api/hoardings")
//   - outcome: "ok", "api_error", "transport_error" or "malformed"
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests to the REST backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "outcome"},
)

// FallbacksTotal counts read-path responses substituted with sample data.
// Label:
//   - resource: the service module that fell back (e.g. "hoardings", "search")
var FallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallbacks_total",
		Help:      "Total number of read responses served from local sample data.",
	},
	[]string{"resource"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionEventsTotal counts session transitions.
// Label:
//   - kind: the audit event kind (e.g. "login", "bootstrap_fallback", "logout")
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session transitions, by kind.",
	},
	[]string{"kind"},
)

// ActiveSessions tracks the number of browser sessions held by the BFF.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Current number of sessions held in memory.",
	},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of session events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// AuditErrorsTotal counts audit events that could not be persisted.
var AuditErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of session events that failed to persist.",
	},
)

// ── Search metrics ────────────────────────────────────────────────────────────

// SearchRequestsTotal counts live-search outcomes.
// Label:
//   - result: "applied", "fallback", "stale" (discarded) or "skipped" (query too short)
var SearchRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_requests_total",
		Help:      "Total number of live-search inputs, labelled by outcome.",
	},
	[]string{"result"},
)
