// Package metrics defines the custom Prometheus metrics of the provisioning
// API. HTTP request metrics come from the echoprometheus middleware; the ones
// here count domain outcomes.
//
// All metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "provisioning"

// RequestsSubmittedTotal counts server requests created by students.
var RequestsSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "server_requests_submitted_total",
		Help:      "Total number of server requests submitted.",
	},
)

// RequestTransitionsTotal counts successful lifecycle transitions.
// Label:
//   - status: the status reached ("APPROVED", "REJECTED", "RELEASED") or "TERMINATED"
var RequestTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "server_request_transitions_total",
		Help:      "Total number of server request transitions, by resulting status.",
	},
	[]string{"status"},
)

// AccountsIssuedTotal counts server accounts created on approval.
var AccountsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "server_accounts_issued_total",
		Help:      "Total number of server accounts issued.",
	},
)

// TransitionConflictsTotal counts transitions refused because another one won.
// Label:
//   - operation: "approve", "reject", "release" or "terminate"
var TransitionConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "server_request_conflicts_total",
		Help:      "Total number of transitions rejected by concurrency control.",
	},
	[]string{"operation"},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
