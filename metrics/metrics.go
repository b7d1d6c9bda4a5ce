// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "encuesta_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "encuesta_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	EditsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "encuesta_edits_applied_total",
		Help: "Survey answer edits written to the store.",
	})

	Diagnostics = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "encuesta_edit_diagnostics_total",
		Help: "Non-fatal edit diagnostics by kind.",
	}, []string{"kind"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
