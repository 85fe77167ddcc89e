package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Publish outcomes recorded by eventsPublished.
const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

var (
	// eventsPublished counts publish attempts per topic, event type and outcome.
	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_producer_events_total",
			Help: "Kafka publish attempts by topic, event type and outcome",
		},
		[]string{"topic", "event_type", "outcome"},
	)

	// publishDuration observes how long a synchronous write to the brokers takes.
	publishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_producer_publish_duration_seconds",
			Help:    "Duration of Kafka publish operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"topic"},
	)
)
