// Package metrics defines and registers all custom Prometheus metrics for
// the accounts API. It is the single source of truth for metric names,
// labels, and help strings. Collectors register with the default registry at
// package init via promauto; the /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid_credentials", "throttled", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts self-registrations.
// Label:
//   - result: "ok" or "invalid"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of self-registration attempts, labelled by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts token verifications at the authentication
// gate and the refresh endpoint.
// Labels:
//   - kind: "access" or "refresh"
//   - result: "ok", "expired", "malformed", or "wrong_kind"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of token verifications, labelled by kind and result.",
	},
	[]string{"kind", "result"},
)

// AuthzDenialsTotal counts authorization denials (403s) by route.
// Label:
//   - path: the registered route path (not the raw URL)
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of authorization denials, labelled by route.",
	},
	[]string{"path"},
)
