// Package jobmetrics holds the Prometheus collectors shared by the worker
// handlers.
package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes used as the "outcome" label.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics records job runs and the latest low-stock scan.
type Metrics struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	lowStock    *prometheus.GaugeVec
}

var processMetrics = sync.OnceValue(func() *Metrics {
	return register(prometheus.DefaultRegisterer)
})

// NewMetrics registers the collectors on registerer. A nil registerer shares
// one set on the process-wide default registry.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		return processMetrics()
	}
	return register(registerer)
}

// Tracker times one job run.
type Tracker struct {
	metrics *Metrics
	job     string
	start   time.Time
}

// Track starts timing a run of job.
func (m *Metrics) Track(job string) *Tracker {
	return &Tracker{metrics: m, job: job, start: time.Now()}
}

// End records the run outcome and passes err through, so handlers can write
// `defer func() { err = tracker.End(err) }()`.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil || t.job == "" {
		return err
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m := t.metrics
	m.runs.WithLabelValues(t.job, outcome).Inc()
	m.duration.WithLabelValues(t.job).Observe(time.Since(t.start).Seconds())
	if err == nil {
		m.lastSuccess.WithLabelValues(t.job).SetToCurrentTime()
	}
	return err
}

// SetLowStock publishes the latest scan. low counts every product at or under
// the threshold, out of stock included.
func (m *Metrics) SetLowStock(threshold, low, outOfStock int) {
	if m == nil {
		return
	}
	for kind, v := range map[string]int{
		"threshold":    threshold,
		"low":          low,
		"out_of_stock": outOfStock,
	} {
		m.lowStock.WithLabelValues(kind).Set(float64(v))
	}
}

func register(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "paintstock_jobs_total",
			Help: "Job runs by job name and outcome.",
		}, []string{"job", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paintstock_job_duration_seconds",
			Help:    "Job run duration in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 20},
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "paintstock_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run per job.",
		}, []string{"job"}),
		lowStock: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "paintstock_low_stock_products",
			Help: "Products reported by the latest low-stock scan, plus the threshold used.",
		}, []string{"kind"}),
	}
	registerer.MustRegister(m.runs, m.duration, m.lastSuccess, m.lowStock)
	return m
}
