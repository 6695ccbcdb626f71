package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wricardo/mcp-training/fuelroute/planner/engine"
)

const (
	metricsNamespace = "fuelroute"
	searchSubsystem  = "search"
)

// Search outcomes used as the "outcome" label.
const (
	OutcomeFound       = "found"
	OutcomeUnreachable = "unreachable"
	OutcomeError       = "error"
)

// Metrics records search activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// SearchesTotal counts searches by outcome.
	SearchesTotal *prometheus.CounterVec

	// DurationSeconds measures planner operations (plan, sweep, minimum_capacity).
	DurationSeconds *prometheus.HistogramVec

	// PoppedStates is the distribution of frontier pops per search.
	PoppedStates prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "searches_total",
			Help:      "Total fuel-constrained searches by outcome",
		}, []string{"outcome"}),
		DurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "duration_seconds",
			Help:      "Planner operation latency in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),
		PoppedStates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: searchSubsystem,
			Name:      "popped_states",
			Help:      "Frontier states popped per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.SearchesTotal, m.DurationSeconds, m.PoppedStates)
	}
	return m
}

// ObserveSearch records the outcome of one engine.Search.
func (m *Metrics) ObserveSearch(res engine.Result, err error) {
	if m == nil {
		return
	}
	switch {
	case err != nil:
		m.SearchesTotal.WithLabelValues(OutcomeError).Inc()
		return
	case res.Found:
		m.SearchesTotal.WithLabelValues(OutcomeFound).Inc()
	default:
		m.SearchesTotal.WithLabelValues(OutcomeUnreachable).Inc()
	}
	m.PoppedStates.Observe(float64(res.Stats.Pops))
}

// ObserveDuration records how long an operation took since start.
func (m *Metrics) ObserveDuration(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.DurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
