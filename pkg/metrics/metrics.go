// Package metrics exposes validation outcomes as Prometheus metrics.
//
// Metrics:
//   - recordkit_validations_total{schema, outcome}: validations by outcome (valid, invalid)
//   - recordkit_validation_errors_total{schema, code}: reported errors by code
//   - recordkit_validation_duration_seconds{schema}: validation duration
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/recordkit/pkg/schema"
)

const namespace = "recordkit"

// Outcome label values.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// Collector implements engine.Observer.
type Collector struct {
	validations *prometheus.CounterVec
	errors      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New creates the collector and registers its metrics with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of record validations",
			},
			[]string{"schema", "outcome"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_errors_total",
				Help:      "Total number of validation errors reported",
			},
			[]string{"schema", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Duration of record validation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~262ms
			},
			[]string{"schema"},
		),
	}

	for _, col := range []prometheus.Collector{c.validations, c.errors, c.duration} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return c, nil
}

// Observe records one validation.
func (c *Collector) Observe(report schema.Report, elapsed time.Duration) {
	name := report.Schema()
	outcome := OutcomeValid
	if !report.Ok() {
		outcome = OutcomeInvalid
	}
	c.validations.WithLabelValues(name, outcome).Inc()
	for _, err := range report.Errors() {
		c.errors.WithLabelValues(name, string(err.Code)).Inc()
	}
	c.duration.WithLabelValues(name).Observe(elapsed.Seconds())
}

// WriteFile writes every metric gathered by g to path in the Prometheus
// text format, for node exporter textfile collection.
func WriteFile(g prometheus.Gatherer, path string) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}
