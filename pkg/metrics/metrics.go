package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "erp_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// PermissionChecks counts permission evaluations by key and outcome
	// (allow|deny|error).
	PermissionChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "erp_permission_checks_total",
			Help: "Total number of permission checks",
		},
		[]string{"permission", "result"},
	)

	// HierarchyDenials counts administrative actions blocked by role rank.
	HierarchyDenials = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "erp_hierarchy_denials_total",
			Help: "Administrative actions denied by the role hierarchy guard",
		},
	)

	// AuditWriteFailures counts audit records that could not be persisted.
	AuditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "erp_audit_write_failures_total",
			Help: "Audit log writes that failed (best effort, never retried)",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "erp_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
