package reporter

import (
	"fmt"

	"github.com/majewsky/gg/option"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/neehar-mavuduru/perfreport/collector"
)

// MetricsFile is the Prometheus textfile written inside the output directory.
const MetricsFile = "metrics.prom"

// runMetrics holds the gauges exported for one report.
type runMetrics struct {
	// Throughput of each run as measured by wrk.
	requestsPerSecond *prometheus.GaugeVec
	// Average CPU busy percentage of each run, per machine role.
	cpuBusy *prometheus.GaugeVec
	// Latency percentiles of each run.
	latency *prometheus.GaugeVec
	runs    prometheus.Gauge
	missing prometheus.Gauge
}

func newRunMetrics(registry *prometheus.Registry) runMetrics {
	m := runMetrics{
		requestsPerSecond: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "perfreport_requests_per_second",
			Help: "Requests per second measured by the load test of a run",
		}, []string{"scenario", "run", "concurrency"}),
		cpuBusy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "perfreport_cpu_busy_percent",
			Help: "Average CPU busy percentage of a machine during a run",
		}, []string{"scenario", "run", "concurrency", "role"}),
		latency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "perfreport_latency_seconds",
			Help: "Latency percentile measured by the load test of a run",
		}, []string{"scenario", "run", "concurrency", "quantile"}),
		runs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "perfreport_runs_total",
			Help: "Number of run directories collected",
		}),
		missing: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "perfreport_missing_files_total",
			Help: "Number of expected files that were absent or unparsable",
		}),
	}
	registry.MustRegister(m.requestsPerSecond, m.cpuBusy, m.latency, m.runs, m.missing)
	return m
}

// WriteMetrics exports the collected figures to path in the Prometheus text format, ready for
// the node exporter textfile collector. Absent values produce no sample.
func WriteMetrics(records []collector.RunRecord, missing *collector.MissingFiles, path string) error {
	registry := prometheus.NewRegistry()
	m := newRunMetrics(registry)

	for _, rec := range records {
		conc := concurrencyText(rec)

		for _, role := range collector.Roles {
			if v, ok := rec.CPUFor(role).BusyPercent.Unpack(); ok {
				m.cpuBusy.WithLabelValues(rec.Scenario, rec.Run, conc, string(role)).Set(v)
			}
		}

		lt := rec.LoadTestOrEmpty()
		if v, ok := lt.RequestsPerSecond.Unpack(); ok {
			m.requestsPerSecond.WithLabelValues(rec.Scenario, rec.Run, conc).Set(v)
		}
		for quantile, o := range map[string]option.Option[float64]{
			"0.5":  lt.LatencyP50,
			"0.75": lt.LatencyP75,
			"0.9":  lt.LatencyP90,
			"0.99": lt.LatencyP99,
		} {
			if v, ok := o.Unpack(); ok {
				m.latency.WithLabelValues(rec.Scenario, rec.Run, conc, quantile).Set(v)
			}
		}
	}
	m.runs.Set(float64(len(records)))
	m.missing.Set(float64(missing.Len()))

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
