// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package chatlink

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Verdict labels for MessagesTotal.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

// MessagesTotal counts validated messages by verdict.
// Use RegisterMetrics to register this with a Prometheus registry.
var MessagesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "linkguard_messages_total",
		Help: "Total number of validated chat messages",
	},
	[]string{"result"},
)

// RejectionsTotal counts rejected messages by error code.
var RejectionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "linkguard_rejections_total",
		Help: "Total number of rejected chat messages by code",
	},
	[]string{"code"},
)

// LinksTotal counts links in accepted messages by link type.
var LinksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "linkguard_links_total",
		Help: "Total number of links in accepted chat messages",
	},
	[]string{"type"},
)

// ValidationDuration observes how long one message takes to validate.
var ValidationDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "linkguard_validation_duration_seconds",
		Help:    "Chat message validation duration in seconds",
		Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
	},
)

// RegisterMetrics registers chatlink metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(MessagesTotal)
	reg.MustRegister(RejectionsTotal)
	reg.MustRegister(LinksTotal)
	reg.MustRegister(ValidationDuration)
}

func recordVerdict(links []Link, err error, elapsed time.Duration) {
	ValidationDuration.Observe(elapsed.Seconds())
	if err != nil {
		MessagesTotal.WithLabelValues(ResultRejected).Inc()
		code := Code(err)
		if code == "" {
			code = "UNKNOWN"
		}
		RejectionsTotal.WithLabelValues(code).Inc()
		return
	}
	MessagesTotal.WithLabelValues(ResultAccepted).Inc()
	for _, l := range links {
		LinksTotal.WithLabelValues(string(l.Kind())).Inc()
	}
}
