// Package metrics provides Prometheus metrics for the younv CRM service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "younv"

var (
	// HTTPRequestsTotal tracks inbound HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route pattern and status code",
		},
		[]string{"method", "pattern", "status_code"},
	)

	// HTTPRequestDuration tracks inbound HTTP request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "pattern"},
	)

	// StoreOperationsTotal tracks record store calls against the remote backend
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of record store operations by collection, operation and status",
		},
		[]string{"collection", "operation", "status"},
	)

	// FallbacksTotal tracks operations served by the local fallback cache
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "fallbacks_total",
			Help:      "Total number of operations re-issued against the local fallback cache",
		},
		[]string{"collection", "operation", "status"},
	)

	// AuditEntriesTotal tracks history entries appended by the audit composer
	AuditEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "entries_total",
			Help:      "Total number of audit history entries appended",
		},
		[]string{"collection", "action"},
	)

	// AuditUnwatchedChangesTotal flags changes to fields outside the watch-list
	AuditUnwatchedChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "unwatched_changes_total",
			Help:      "Total number of persisted field changes not recorded in history",
		},
		[]string{"collection", "field"},
	)

	// MigratedRecordsTotal tracks records touched by migration utilities
	MigratedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "migration",
			Name:      "records_total",
			Help:      "Total number of records processed by migrations by outcome",
		},
		[]string{"migration", "collection", "outcome"},
	)

	// RealtimeClients tracks connected websocket clients
	RealtimeClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "clients",
			Help:      "Number of connected realtime websocket clients",
		},
	)
)
