// Package metrics records run counters on a private Prometheus registry and
// optionally pushes them to a Pushgateway when the run ends.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobName is the Pushgateway job label for dbfaker runs.
const JobName = "dbfaker"

// Recorder collects the metrics of one run.
type Recorder struct {
	registry *prometheus.Registry

	rowsUpdated     *prometheus.CounterVec
	tablesProcessed *prometheus.CounterVec
	tableDuration   *prometheus.HistogramVec
	connectAttempts prometheus.Gauge
}

// NewRecorder returns a Recorder backed by its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rowsUpdated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dbfaker",
			Name:      "rows_updated_total",
			Help:      "Rows rewritten with generated values.",
		}, []string{"table"}),
		tablesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dbfaker",
			Name:      "tables_processed_total",
			Help:      "Tables processed, by outcome.",
		}, []string{"status"}),
		tableDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dbfaker",
			Name:      "table_duration_seconds",
			Help:      "Time spent processing one table.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"table"}),
		connectAttempts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dbfaker",
			Name:      "connect_failures",
			Help:      "Failed connection attempts before the database became reachable.",
		}),
	}
	r.registry.MustRegister(r.rowsUpdated, r.tablesProcessed, r.tableDuration, r.connectAttempts)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// TableDone records the outcome of one table.
func (r *Recorder) TableDone(table, status string, rows int, d time.Duration) {
	r.tablesProcessed.WithLabelValues(status).Inc()
	r.tableDuration.WithLabelValues(table).Observe(d.Seconds())
	if rows > 0 {
		r.rowsUpdated.WithLabelValues(table).Add(float64(rows))
	}
}

// ConnectFailures records how many attempts failed before connecting.
func (r *Recorder) ConnectFailures(n int) {
	r.connectAttempts.Set(float64(n))
}

// Push sends every collected metric to the Pushgateway at url, grouped by
// run ID.
func (r *Recorder) Push(ctx context.Context, url, runID string) error {
	err := push.New(url, JobName).
		Gatherer(r.registry).
		Grouping("run_id", runID).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
