// Package metrics defines and registers all custom Prometheus metrics for the
// forum API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "forum"

// ── Request pipeline ──────────────────────────────────────────────────────────

// AuthOutcomesTotal counts what the authentication middleware decided.
// Label:
//   - outcome: "authenticated", "anonymous", "expired" or "invalid"
var AuthOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_outcomes_total",
		Help:      "Requests seen by the authentication middleware, by outcome.",
	},
	[]string{"outcome"},
)

// RateLimitDecisionsTotal counts limiter decisions.
// Label:
//   - result: "allowed", "rejected" or "error" (backend failed, request allowed)
var RateLimitDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_decisions_total",
		Help:      "Rate limiter decisions, by result.",
	},
	[]string{"result"},
)

// ── Engagements ───────────────────────────────────────────────────────────────

// EngagementsTotal counts like/unlike attempts.
// Labels:
//   - kind: user, forum, topic or comment
//   - action: "like", "unlike" or "reconcile"
//   - result: "ok" or the declined outcome (e.g. "already_engaged", "not_found", "error")
var EngagementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "engagements_total",
		Help:      "Engagement operations, by kind, action and result.",
	},
	[]string{"kind", "action", "result"},
)

// EngagementDuration measures the transactional unit of work of one operation.
// Label:
//   - action: "like", "unlike" or "reconcile"
var EngagementDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "engagement_duration_seconds",
		Help:      "Duration of engagement operations including the storage transaction.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"action"},
)

// ── Audit pipeline ────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit events leaving the pipeline.
// Label:
//   - result: "written", "failed" (store error) or "dropped" (queue full)
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Audit events by final result.",
	},
	[]string{"result"},
)
