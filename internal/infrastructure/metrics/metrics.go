// Package metrics exposes Prometheus counters for the ledger workflows.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UsageSubmissions counts usage submissions by outcome
	// (recorded, rejected).
	UsageSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitestock",
		Subsystem: "usage",
		Name:      "submissions_total",
		Help:      "Usage log submissions by outcome.",
	}, []string{"outcome"})

	// UsageVoids counts voided usage logs.
	UsageVoids = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sitestock",
		Subsystem: "usage",
		Name:      "voids_total",
		Help:      "Voided usage log entries.",
	})

	// RequestResolutions counts workflow resolutions by terminal status
	// (approved, rejected).
	RequestResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitestock",
		Subsystem: "requests",
		Name:      "resolutions_total",
		Help:      "Material request resolutions by terminal status.",
	}, []string{"status"})

	// BillComputations counts bill preview computations by bill type.
	BillComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitestock",
		Subsystem: "billing",
		Name:      "computations_total",
		Help:      "Bill summary computations by bill type.",
	}, []string{"bill_type"})

	// HTTPRequestDuration observes request latency per route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sitestock",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
