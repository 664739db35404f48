// Package metrics exposes optional Prometheus counters and histograms
// for batches of protocol runs. Nothing is recorded unless a caller
// builds a Recorder against a prometheus.Registerer of its choosing
// (spec.md §5: the core itself owns no shared resources beyond the RNG).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/satqkd/bb84sim/internal/qkd/protocol"
)

// Recorder records outcomes of protocol runs as Prometheus metrics.
type Recorder struct {
	runs      *prometheus.CounterVec
	qberHisto prometheus.Histogram
	finalBits prometheus.Histogram
}

// NewRecorder registers its collectors against reg. Passing a
// prometheus.NewRegistry() keeps the metrics isolated from the global
// default registry, useful for tests that construct many recorders.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bb84sim",
			Name:      "runs_total",
			Help:      "Total protocol runs by security level.",
		}, []string{"security_level"}),
		qberHisto: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bb84sim",
			Name:      "qber_percent",
			Help:      "Observed quantum bit error rate per run, in percent.",
			Buckets:   []float64{1, 2, 5, 8, 11, 15, 25, 40},
		}),
		finalBits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bb84sim",
			Name:      "final_key_bits",
			Help:      "Final key length per run, in bits.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}

	for _, c := range []prometheus.Collector{r.runs, r.qberHisto, r.finalBits} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe records one completed trace.
func (r *Recorder) Observe(trace protocol.Trace) {
	r.runs.WithLabelValues(string(trace.SecurityLevel)).Inc()
	r.qberHisto.Observe(trace.ErrorAnalysis.QBERPercent)
	r.finalBits.Observe(float64(len(trace.FinalKey)))
}
