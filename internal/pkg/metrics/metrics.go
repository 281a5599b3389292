// Package metrics holds the Prometheus collectors of the background jobs.
// They register on the default registry and are served by /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fulfillment"

var (
	// SlaChecks counts handled SLA jobs by the effect that was applied.
	SlaChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sla",
		Name:      "checks_total",
		Help:      "SLA checks handled, by effect.",
	}, []string{"effect"})

	// SlaJobFailures counts failed SLA jobs by what happened to them.
	SlaJobFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sla",
		Name:      "job_failures_total",
		Help:      "SLA jobs that failed, by outcome (retried or buried).",
	}, []string{"outcome"})

	// OutboxPublished counts events handed to the event bus.
	OutboxPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "outbox",
		Name:      "published_total",
		Help:      "Outbox events published.",
	})

	// OutboxPublishFailures counts batches the event bus rejected.
	OutboxPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "outbox",
		Name:      "publish_failures_total",
		Help:      "Outbox batches that failed to publish.",
	})
)

// Outcomes of a failed SLA job.
const (
	OutcomeRetried = "retried"
	OutcomeBuried  = "buried"
)
