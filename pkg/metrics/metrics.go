package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobboard_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RealtimeConnections tracks currently open websocket connections.
	RealtimeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobboard_realtime_connections",
			Help: "Number of open realtime connections",
		},
	)

	// EventsDelivered counts realtime events handed to a connection's send
	// queue, labelled by event name.
	EventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_realtime_events_delivered_total",
			Help: "Total realtime events delivered to connections",
		},
		[]string{"event"},
	)

	// EventsDropped counts events that found no live recipient or were shed
	// under backpressure (reason: empty_room|backpressure).
	EventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_realtime_events_dropped_total",
			Help: "Total realtime events dropped without delivery",
		},
		[]string{"reason"},
	)

	// NotificationsCreated counts durable notification writes by type.
	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobboard_notifications_created_total",
			Help: "Total notifications persisted",
		},
		[]string{"type"},
	)
)
