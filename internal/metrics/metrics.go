// Package metrics defines the Prometheus collectors of the simulator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Recorder holds the simulator collectors. A nil *Recorder records nothing.
type Recorder struct {
	calculations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	lookups      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3costsim_calculations_total",
				Help: "Scenario calculations by scenario and outcome",
			},
			[]string{"scenario", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "s3costsim_calculation_duration_seconds",
				Help:    "Scenario calculation latency, including price lookups",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
			},
			[]string{"scenario"},
		),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3costsim_price_lookups_total",
				Help: "Catalog price lookups by operation kind and outcome",
			},
			[]string{"operation_kind", "outcome"},
		),
	}
	reg.MustRegister(r.calculations, r.duration, r.lookups)
	return r
}

// Calculation records one finished calculation.
func (r *Recorder) Calculation(scenario string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	r.calculations.WithLabelValues(scenario, outcome(err)).Inc()
	r.duration.WithLabelValues(scenario).Observe(elapsed.Seconds())
}

// PriceLookup records one catalog lookup.
func (r *Recorder) PriceLookup(operationKind string, err error) {
	if r == nil {
		return
	}
	r.lookups.WithLabelValues(operationKind, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
