package observability

import (
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for arbor builds.
type Metrics struct {
	elements *prometheus.CounterVec
	errors   *prometheus.CounterVec
	exits    prometheus.Counter
	duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// Pass prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		elements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_elements_total",
				Help: "Total number of elements transformed",
			},
			[]string{"registry", "tag"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_build_errors_total",
				Help: "Total number of failed builds by error kind",
			},
			[]string{"kind"},
		),
		exits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "arbor_two_step_exits_total",
				Help: "Total number of completed two-step transforms",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "arbor_build_duration_seconds",
				Help:    "Duration of whole-document builds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),
	}

	for _, c := range []prometheus.Collector{m.elements, m.errors, m.exits, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record element and error counts.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnEnter: func(e *domain.ElementEvent) {
			m.elements.WithLabelValues(e.Registry, e.Tag).Inc()
		},
		OnExit: func(e *domain.ElementEvent) {
			if e.TwoStep {
				m.exits.Inc()
			}
		},
		OnError: func(e *domain.ElementEvent) {
			m.errors.WithLabelValues(domain.ErrorKind(e.Err)).Inc()
		},
	}
}

// Time runs build and records its duration.
func (m *Metrics) Time(build func() (any, error)) (any, error) {
	start := time.Now()
	obj, err := build()
	m.duration.Observe(time.Since(start).Seconds())
	return obj, err
}

// ElementCounter returns the element counter for a registry and tag.
func (m *Metrics) ElementCounter(registry, tag string) prometheus.Counter {
	return m.elements.WithLabelValues(registry, tag)
}

// ErrorCounter returns the failed-build counter for an error kind.
func (m *Metrics) ErrorCounter(kind string) prometheus.Counter {
	return m.errors.WithLabelValues(kind)
}

// TwoStepExits returns the counter of completed exit steps.
func (m *Metrics) TwoStepExits() prometheus.Counter {
	return m.exits
}
