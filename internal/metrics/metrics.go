// Package metrics records run outcomes for node_exporter's textfile collector.
//
// tubepost is a short-lived process, so nothing is scraped directly: the
// registry is written to a .prom file at the end of each run.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tubepost"

// Recorder holds the metrics of one process.
type Recorder struct {
	registry      *prometheus.Registry
	runsTotal     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	lastRun       prometheus.Gauge
	lastSuccess   prometheus.Gauge
	textfilePath  string
	now           func() time.Time
}

// New creates a Recorder. An empty textfilePath disables Flush.
func New(textfilePath string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of runs by final state",
			},
			[]string{"outcome"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages in seconds",
				Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1200},
			},
			[]string{"stage", "status"},
		),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last finished run",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that did not fail",
		}),
		textfilePath: strings.TrimSpace(textfilePath),
		now:          time.Now,
	}
	r.registry.MustRegister(r.runsTotal, r.stageDuration, r.lastRun, r.lastSuccess)
	return r
}

// ObserveStage records one stage execution.
func (r *Recorder) ObserveStage(stage string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	r.stageDuration.WithLabelValues(stage, status).Observe(elapsed.Seconds())
}

// RecordRun records the final state of a run. failed marks runs that count
// against last_success.
func (r *Recorder) RecordRun(outcome string, failed bool) {
	if r == nil {
		return
	}
	r.runsTotal.WithLabelValues(strings.ToLower(outcome)).Inc()
	now := float64(r.now().Unix())
	r.lastRun.Set(now)
	if !failed {
		r.lastSuccess.Set(now)
	}
}

// Flush writes the registry to the configured textfile. It is a no-op when no
// path is configured.
func (r *Recorder) Flush() error {
	if r == nil || r.textfilePath == "" {
		return nil
	}
	return prometheus.WriteToTextfile(r.textfilePath, r.registry)
}
