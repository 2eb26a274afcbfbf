// Package metrics defines the custom Prometheus metrics of the books API. It is
// the single source of truth for metric names, labels, and help strings.
//
// Collectors are created unregistered. Call Register once at startup with the
// registry the /metrics endpoint serves; counters that were never registered
// still count, they are just not exported.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "books"

// Result label values shared by the counters below.
const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultRejected = "rejected"
	ResultError    = "error"
	ResultReplayed = "replayed"
	ResultHit      = "hit"
	ResultMiss     = "miss"
)

// BookMutationsTotal counts write operations on books.
// Labels:
//   - operation: "create", "replace", "patch" or "delete"
//   - result: "success", "not_found", "rejected", "replayed" or "error"
var BookMutationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of book write operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "rejected" (bad credentials) or "error"
var LoginAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// IdempotencyLookupsTotal counts Idempotency-Key lookups on book creation.
// Label:
//   - result: "hit", "miss" or "error"
var IdempotencyLookupsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotency_lookups_total",
		Help:      "Total number of idempotency key lookups on book creation, by result.",
	},
	[]string{"result"},
)

// AuthorizationDenialsTotal counts requests rejected by a permission guard.
// Label:
//   - permission: the permission the route requires (e.g. "book:delete")
var AuthorizationDenialsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of requests denied for lacking a permission.",
	},
	[]string{"permission"},
)

var collectors = []prometheus.Collector{
	BookMutationsTotal,
	LoginAttemptsTotal,
	IdempotencyLookupsTotal,
	AuthorizationDenialsTotal,
}

// Register adds every collector to reg. Registering the same collectors twice
// is not an error.
func Register(reg prometheus.Registerer) error {
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}
