package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts generated events and failures.
//
// Each Metrics has its own prometheus registry, so engines never share
// collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry  *prometheus.Registry
	generated *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  prometheus.Summary
	streams   prometheus.Counter
}

// NewMetrics creates and registers the engine collectors.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.generated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autosource",
		Name:      "events_generated_total",
		Help:      "Number of events generated by source and event type",
	}, []string{"source", "event"})
	m.failures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autosource",
		Name:      "generation_failures_total",
		Help:      "Number of failed generation runs by error kind",
	}, []string{"kind"})
	m.duration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "autosource",
		Name:      "generation_duration_seconds",
		Help:      "Time spent loading, generating and merging one story",
	})
	m.streams = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "autosource",
		Name:      "streams_total",
		Help:      "Number of streams produced",
	})

	m.registry.MustRegister(m.generated, m.failures, m.duration, m.streams)
	return m
}

// Registry exposes the underlying prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observeEvent(e Event) {
	if m == nil {
		return
	}
	m.generated.WithLabelValues(e.Source, e.Event).Inc()
}

func (m *Metrics) observeFailure(err error) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(string(Classify(err))).Inc()
}

func (m *Metrics) observeStream(d time.Duration) {
	if m == nil {
		return
	}
	m.streams.Inc()
	m.duration.Observe(d.Seconds())
}
