package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the store collectors
type Metrics struct {
	EventsApplied   *prometheus.CounterVec
	EventsDropped   *prometheus.CounterVec
	StaleResponses  *prometheus.CounterVec
	Resyncs         prometheus.Counter
	RequestFailures *prometheus.CounterVec
}

// NewMetrics registers the store collectors with reg. A nil reg creates
// unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dronesync",
			Name:      "lifecycle_events_applied_total",
			Help:      "Mission lifecycle events applied to the cache.",
		}, []string{"kind"}),
		EventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dronesync",
			Name:      "lifecycle_events_dropped_total",
			Help:      "Mission lifecycle events ignored without mutation.",
		}, []string{"reason"}),
		StaleResponses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dronesync",
			Name:      "stale_responses_total",
			Help:      "Fetch responses discarded because the active organization changed.",
		}, []string{"collection"}),
		Resyncs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "dronesync",
			Name:      "organization_resyncs_total",
			Help:      "Scoped collection refetches triggered by an organization switch.",
		}),
		RequestFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dronesync",
			Name:      "request_failures_total",
			Help:      "Failed REST calls by store operation.",
		}, []string{"operation"}),
	}
}
