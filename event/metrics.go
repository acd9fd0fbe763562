// Copyright (c) 2025 Marco Rinaldi.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package event

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type busMetrics struct {
	published *prometheus.CounterVec
	delivered *prometheus.CounterVec
	dropped   *prometheus.CounterVec
}

func newBusMetrics(registry prometheus.Registerer) *busMetrics {
	factory := promauto.With(registry)
	return &busMetrics{
		published: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quorum_events_published_total",
			Help: "Total events published to the bus, by type",
		}, []string{"type"}),
		delivered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quorum_events_delivered_total",
			Help: "Total events delivered to subscribers, by type",
		}, []string{"type"}),
		dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quorum_events_dropped_total",
			Help: "Total events dropped due to slow subscribers, by type",
		}, []string{"type"}),
	}
}
