package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics exposes Prometheus counters for the widget lifecycle.
type Metrics struct {
	registry *prometheus.Registry

	cycles          *prometheus.CounterVec
	mountAttempts   prometheus.Counter
	mounts          prometheus.Counter
	mountsAbandoned prometheus.Counter
	lookups         *prometheus.CounterVec
	staleResults    *prometheus.CounterVec
}

// New creates the collectors on a private registry.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_total",
				Help:      "Widget initialization cycles started, by trigger",
			},
			[]string{"trigger"},
		),
		mountAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mount_attempts_total",
			Help:      "Container discovery attempts",
		}),
		mounts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mounts_total",
			Help:      "Widget instances inserted into the document",
		}),
		mountsAbandoned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mounts_abandoned_total",
			Help:      "Cycles that exhausted the retry budget without a container",
		}),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lookups_total",
				Help:      "Location and weather lookups, by stage and result",
			},
			[]string{"stage", "result"},
		),
		staleResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_results_total",
				Help:      "Lookup results discarded because their cycle had ended",
			},
			[]string{"stage"},
		),
	}

	m.registry.MustRegister(
		m.cycles,
		m.mountAttempts,
		m.mounts,
		m.mountsAbandoned,
		m.lookups,
		m.staleResults,
	)
	return m
}

func (m *Metrics) CycleStarted(trigger string) {
	m.cycles.WithLabelValues(trigger).Inc()
}

func (m *Metrics) MountAttempted() {
	m.mountAttempts.Inc()
}

func (m *Metrics) Mounted() {
	m.mounts.Inc()
}

func (m *Metrics) MountAbandoned() {
	m.mountsAbandoned.Inc()
}

// LookupFinished records a lookup outcome; a nil err counts as success.
func (m *Metrics) LookupFinished(stage string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.lookups.WithLabelValues(stage, result).Inc()
}

func (m *Metrics) StaleResult(stage string) {
	m.staleResults.WithLabelValues(stage).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
