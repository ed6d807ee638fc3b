// Package metrics defines and registers the custom Prometheus metrics for the
// client registry. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry at package init through
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "client_registry"

// ── Registration metrics ──────────────────────────────────────────────────────

// ClientsRegisteredTotal counts registration attempts by terminal outcome.
// Label:
//   - outcome: "created", "invalid", "conflict", "partial", "error"
var ClientsRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_registered_total",
		Help:      "Total number of client registration attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ClientsDeactivatedTotal counts successful soft deletes.
var ClientsDeactivatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clients_deactivated_total",
		Help:      "Total number of clients soft-deleted.",
	},
)

// ── Provisioning metrics ──────────────────────────────────────────────────────

// UsersProvisionedTotal counts user provisioning decisions.
// Label:
//   - outcome: "created", "skipped" (user already existed), "failed"
var UsersProvisionedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_provisioned_total",
		Help:      "Total number of user provisioning attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RoleCacheTotal counts role lookups served from the in-process cache.
// Label:
//   - result: "hit" or "miss"
var RoleCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_cache_total",
		Help:      "Total number of role lookups, labelled by cache result (hit/miss).",
	},
	[]string{"result"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsPublishedTotal counts user-created event publications.
// Label:
//   - result: "ok" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of user-created events published, by result.",
	},
	[]string{"result"},
)

// RegistrationDuration measures end-to-end registration time.
// Label:
//   - outcome: same values as ClientsRegisteredTotal
var RegistrationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "registration_duration_seconds",
		Help:      "Duration of the client registration workflow.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)
