// Package metrics exposes Prometheus collectors for the admin console.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream call outcomes used as label values.
const (
	OutcomeSuccess   = "success"
	OutcomeUpstream  = "upstream_error"
	OutcomeTransport = "transport_error"
)

var (
	// UpstreamRequests counts calls to the school platform API.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "school_admin_upstream_requests_total",
		Help: "Total number of requests issued to the platform API",
	}, []string{"method", "outcome"})

	// LoginFailures counts rejected console login attempts.
	LoginFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "school_admin_login_failures_total",
		Help: "Total number of failed console logins",
	})

	// ActiveSessions tracks live console sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "school_admin_active_sessions",
		Help: "Current number of active console sessions",
	})
)
