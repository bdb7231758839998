// Package metrics exports dispatch sweep counters to Prometheus.
package metrics

import (
	"context"
	"time"

	"orderdispatch/internal/core/application/usecases/commands"
	"orderdispatch/internal/core/domain/model/sweep"

	"github.com/prometheus/client_golang/prometheus"
)

// SweepMetrics holds the collectors shared by every instrumented strategy.
type SweepMetrics struct {
	outcomes *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewSweepMetrics creates the collectors and registers them with reg.
func NewSweepMetrics(reg prometheus.Registerer) (*SweepMetrics, error) {
	m := &SweepMetrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "sweep",
			Name:      "order_outcomes_total",
			Help:      "Per-order sweep outcomes by mode and outcome.",
		}, []string{"mode", "outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "sweep",
			Name:      "failures_total",
			Help:      "Sweeps that could not start, for example when pending orders could not be fetched.",
		}, []string{"mode"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dispatch",
			Subsystem: "sweep",
			Name:      "duration_seconds",
			Help:      "Wall time of one sweep.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"mode"}),
	}

	for _, c := range []prometheus.Collector{m.outcomes, m.failures, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Observe records one report.
func (m *SweepMetrics) Observe(report sweep.Report, elapsed time.Duration) {
	mode := string(report.Mode)

	m.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
	if report.Failure != "" {
		m.failures.WithLabelValues(mode).Inc()
	}
	for _, o := range report.Outcomes {
		m.outcomes.WithLabelValues(mode, string(o.Kind)).Inc()
	}
}

// InstrumentedStrategy records every report its inner strategy produces.
type InstrumentedStrategy struct {
	inner   commands.AssignmentStrategy
	metrics *SweepMetrics
}

func Instrument(inner commands.AssignmentStrategy, metrics *SweepMetrics) InstrumentedStrategy {
	return InstrumentedStrategy{inner: inner, metrics: metrics}
}

func (s InstrumentedStrategy) Mode() sweep.Mode {
	return s.inner.Mode()
}

func (s InstrumentedStrategy) Handle(ctx context.Context, command commands.SweepPendingOrdersCommand) (sweep.Report, error) {
	start := time.Now()

	report, err := s.inner.Handle(ctx, command)
	if err != nil {
		return report, err
	}

	s.metrics.Observe(report, time.Since(start))
	return report, nil
}
