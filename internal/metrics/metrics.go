package metrics

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/bgricker/unitkit/pkg/report"
	"github.com/bgricker/unitkit/pkg/runner"
)

// Collector captures metrics for a test run. It observes the runner.
type Collector struct {
	registry     *prometheus.Registry
	unitsTotal   *prometheus.CounterVec
	testDuration *prometheus.HistogramVec
	runInfo      *prometheus.GaugeVec
}

var _ runner.Observer = (*Collector)(nil)

// NewCollector initializes a new metrics registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	c := &Collector{
		registry: registry,
		unitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "unitkit_units_total", Help: "Finished units by kind and status"},
			[]string{"kind", "status"},
		),
		testDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "unitkit_test_duration_seconds",
				Help:    "Test duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		runInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "unitkit_run_info", Help: "Run metadata for traceability"},
			[]string{"run_id", "assembly", "status"},
		),
	}
	registry.MustRegister(c.unitsTotal, c.testDuration, c.runInfo)
	return c
}

// OnEvent counts every finished unit and times tests.
func (c *Collector) OnEvent(ev runner.Event, u runner.Unit, r report.Result) {
	if ev != runner.EventAfterRun {
		return
	}
	kind := "test"
	if s, ok := u.(*runner.Suite); ok {
		kind = string(s.Kind())
	}
	status := r.Status().String()
	c.unitsTotal.WithLabelValues(kind, status).Inc()
	if kind == "test" {
		c.testDuration.WithLabelValues(status).Observe(r.ExecutionTimeInSeconds())
	}
}

// ObserveRun records the identity and outcome of a whole run.
func (c *Collector) ObserveRun(runID, assembly string, status report.Status) {
	c.runInfo.WithLabelValues(runID, assembly, status.String()).Set(1)
}

// Write writes all metrics to a Prometheus text file.
func (c *Collector) Write(path string) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := enc.Encode(family); err != nil {
			return err
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
