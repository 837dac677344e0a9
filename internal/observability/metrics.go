// Package observability registers the service's prometheus collectors.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	activitiesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "crier",
		Subsystem: "activities",
		Name:      "created_total",
		Help:      "Number of activities successfully persisted.",
	})
	hubSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "crier",
		Subsystem: "hub",
		Name:      "subscribers",
		Help:      "Number of currently registered hub subscribers.",
	})
	hubDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "crier",
		Subsystem: "hub",
		Name:      "events_delivered_total",
		Help:      "Number of events handed to subscriber buffers.",
	})
	hubDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "crier",
		Subsystem: "hub",
		Name:      "subscribers_evicted_total",
		Help:      "Number of subscribers evicted for not draining their buffer.",
	})
)

func init() {
	prometheus.MustRegister(activitiesCreated, hubSubscribers, hubDelivered, hubDropped)
}

// RecordActivityCreated counts a successful persist.
func RecordActivityCreated() {
	activitiesCreated.Inc()
}

// HubSubscribed counts a new hub subscriber.
func HubSubscribed() {
	hubSubscribers.Inc()
}

// HubUnsubscribed counts a subscriber leaving the hub.
func HubUnsubscribed() {
	hubSubscribers.Dec()
}

// HubDelivered counts an event handed to a subscriber buffer.
func HubDelivered() {
	hubDelivered.Inc()
}

// HubDropped counts a slow-subscriber eviction.
func HubDropped() {
	hubDropped.Inc()
}
