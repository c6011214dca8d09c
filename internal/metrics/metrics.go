package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	Registry *prometheus.Registry

	RunCount       prometheus.Counter
	RunFailures    *prometheus.CounterVec
	EntriesLoaded  prometheus.Gauge
	RowsFlattened  prometheus.Gauge
	ApprovalRate   prometheus.Gauge
	RowsExported   prometheus.Counter
	StageDuration  *prometheus.HistogramVec
	LastSuccessRun prometheus.Gauge
}

// NewMetrics creates the pipeline metrics on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RunCount: factory.NewCounter(prometheus.CounterOpts{
			Name: "dataset_processor_runs_total",
			Help: "Total number of pipeline runs",
		}),
		RunFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataset_processor_run_failures_total",
			Help: "Total number of failed pipeline stages",
		}, []string{"stage"}),
		EntriesLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dataset_processor_entries",
			Help: "Number of dataset entries loaded by the last run",
		}),
		RowsFlattened: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dataset_processor_rows",
			Help: "Number of flattened rows produced by the last run",
		}),
		ApprovalRate: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dataset_processor_approval_rate",
			Help: "Fraction of approved rows in the last run",
		}),
		RowsExported: factory.NewCounter(prometheus.CounterOpts{
			Name: "dataset_processor_rows_exported_total",
			Help: "Total number of feature rows written to training CSVs",
		}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dataset_processor_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		LastSuccessRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dataset_processor_last_success_timestamp_seconds",
			Help: "Unix time of the last successful pipeline run",
		}),
	}
}

// WriteTextfile dumps the current metric values in text exposition format,
// for node_exporter's textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
