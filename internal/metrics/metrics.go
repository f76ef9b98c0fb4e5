package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectedSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "citadel_connected_sessions",
			Help: "Currently connected relay clients",
		},
	)

	EventsRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citadel_events_relayed_total",
			Help: "Events broadcast to connected clients",
		},
		[]string{"type"},
	)

	MessagesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "citadel_messages_stored_total",
			Help: "Messages appended to the log",
		},
	)

	StorageErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "citadel_storage_errors_total",
			Help: "Failed message log operations",
		},
	)

	NotifyFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "citadel_notify_failures_total",
			Help: "Push notification deliveries that failed",
		},
	)

	UploadsStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "citadel_uploads_stored_total",
			Help: "Media files accepted by the upload endpoint",
		},
	)
)
