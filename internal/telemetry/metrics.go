package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the build collectors on a private registry. They are
// written once per build in the node_exporter textfile format.
type Metrics struct {
	reg *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	stages        *prometheus.CounterVec
	commands      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cif",
			Name:      "stage_duration_seconds",
			Help:      "Wall time of build stages.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"stage"}),
		stages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cif",
			Name:      "stages_total",
			Help:      "Build stages by outcome (ok, failed, skipped).",
		}, []string{"stage", "outcome"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cif",
			Name:      "commands_total",
			Help:      "Shell commands run by outcome (ok, failed).",
		}, []string{"outcome"}),
	}
	m.reg.MustRegister(m.stageDuration, m.stages, m.commands)
	return m
}

func (m *Metrics) ObserveStage(stage, outcome string, d time.Duration) {
	if outcome != "skipped" {
		m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
	m.stages.WithLabelValues(stage, outcome).Inc()
}

func (m *Metrics) ObserveCommand(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.commands.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Gatherer() prometheus.Gatherer { return m.reg }

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
