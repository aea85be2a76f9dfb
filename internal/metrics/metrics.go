package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fbo_console_api_requests_total",
		Help: "Total number of FBO backend calls by method, route and outcome.",
	},
		[]string{"method", "route", "outcome"},
	)

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fbo_console_api_request_duration_seconds",
		Help:    "Latency of FBO backend calls.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"method", "route"},
	)

	AlertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fbo_console_alerts_total",
		Help: "Total number of alerts shown to console users, by action.",
	},
		[]string{"action"},
	)

	ScansRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fbo_console_scans_recorded_total",
		Help: "Total number of barcodes successfully scanned into boxes.",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "fbo_console_active_sessions",
		Help: "Current number of console sessions held in memory.",
	})

	AuditEntriesDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fbo_console_audit_entries_dropped_total",
		Help: "Total number of audit entries that could not be delivered to the sink.",
	})
)
