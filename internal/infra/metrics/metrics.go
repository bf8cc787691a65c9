package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PollCyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poll_cycles_total",
		Help: "Completed polling cycles",
	})
	PollCycleSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "poll_cycle_seconds",
		Help:    "Duration of a full polling cycle",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 1800, 3600},
	})
	PollCompanyFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poll_company_failures_total",
		Help: "Companies whose announcement search failed during a cycle",
	})
	PollRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poll_rejected_total",
		Help: "Poll triggers rejected because a cycle was already running",
	})
	EventsDiscovered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "events_discovered_total",
		Help: "Discovered events by type",
	}, []string{"event_type"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Duration of outbound requests",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30, 60, 90, 120},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Outbound request count",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister registers all service metrics.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		PollCyclesTotal,
		PollCycleSeconds,
		PollCompanyFailures,
		PollRejected,
		EventsDiscovered,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// ObserveNetworkRequest records the duration and status of an outbound
// request.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// IncEventDiscovered counts one discovered event of the given type.
func IncEventDiscovered(eventType string) {
	EventsDiscovered.WithLabelValues(eventType).Inc()
}
