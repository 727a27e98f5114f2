package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeCompleted    = "completed"
	outcomeWithFailures = "completed_with_failures"
	outcomeAborted      = "aborted"
	outcomeInProgress   = "in_progress"
)

type Metrics struct {
	runs          *prometheus.CounterVec
	subscriptions *prometheus.CounterVec
	duration      prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subcommerce",
			Subsystem: "renewal",
			Name:      "runs_total",
			Help:      "Renewal runs by outcome.",
		}, []string{"outcome"}),
		subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "subcommerce",
			Subsystem: "renewal",
			Name:      "subscriptions_total",
			Help:      "Subscriptions processed by renewal runs, by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "subcommerce",
			Subsystem: "renewal",
			Name:      "run_duration_seconds",
			Help:      "Wall time of renewal runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}

	for _, c := range []prometheus.Collector{m.runs, m.subscriptions, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeRun(outcome string, elapsed time.Duration, renewed, skipped, failed int) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	if outcome == outcomeInProgress {
		return
	}
	m.duration.Observe(elapsed.Seconds())
	m.subscriptions.WithLabelValues("renewed").Add(float64(renewed))
	m.subscriptions.WithLabelValues("skipped").Add(float64(skipped))
	m.subscriptions.WithLabelValues("failed").Add(float64(failed))
}
