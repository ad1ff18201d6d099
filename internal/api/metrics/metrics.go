// Package metrics defines the custom Prometheus metrics of the dashboard.
// HTTP request metrics come from echoprometheus; everything here is
// domain-level.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/doable/dashboard/internal/core/domain"
)

const namespace = "doable"

// ── Session metrics ───────────────────────────────────────────────────────────

// GuardOutcomesTotal counts route guard decisions.
// Labels:
//   - surface: "api" or "web"
//   - outcome: loading, unauthenticated, denied, allowed
var GuardOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_outcomes_total",
		Help:      "Route guard decisions, by surface and outcome.",
	},
	[]string{"surface", "outcome"},
)

// SignInsTotal counts sign-in attempts.
// Label:
//   - result: "ok" or "failed"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Sign-in attempts, by result.",
	},
	[]string{"result"},
)

// ── Realtime metrics ──────────────────────────────────────────────────────────

// ChangeEventsTotal counts change events applied by the realtime hub.
var ChangeEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "change_events_total",
		Help:      "Change events applied, by table and kind.",
	},
	[]string{"table", "kind"},
)

// CacheInvalidationsTotal counts query names marked stale.
var CacheInvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_invalidations_total",
		Help:      "Cached query names invalidated by change events.",
	},
	[]string{"query"},
)

// StreamListeners tracks open server-sent event streams.
var StreamListeners = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stream_listeners",
		Help:      "Currently open realtime event streams.",
	},
)

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksCreatedTotal counts tasks created through the API or the dashboard.
var TasksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created.",
	},
)

// TaskProgressTotal counts progress updates by the status applied.
var TaskProgressTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_progress_updates_total",
		Help:      "Task progress updates, by resulting status.",
	},
	[]string{"status"},
)

// RecordChange is the realtime hub's event hook.
func RecordChange(ev domain.ChangeEvent, invalidated []string) {
	ChangeEventsTotal.WithLabelValues(string(ev.Table), string(ev.Kind)).Inc()
	for _, q := range invalidated {
		CacheInvalidationsTotal.WithLabelValues(q).Inc()
	}
}
