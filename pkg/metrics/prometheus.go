package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	extractions    *prometheus.CounterVec
	extractedItems *prometheus.CounterVec
	providerErrors *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	evaluations    *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		extractions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tli_extractions_total",
				Help: "Total number of alert extractions by path",
			},
			[]string{"path"},
		),
		extractedItems: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tli_extracted_items_total",
				Help: "Total number of symbols and levels extracted from alerts",
			},
			[]string{"kind"},
		),
		providerErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tli_provider_errors_total",
				Help: "Total number of market data provider errors",
			},
			[]string{"provider"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tli_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tli_evaluations_total",
				Help: "Total number of completed evaluations by recommendation",
			},
			[]string{"symbol", "recommendation"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tli_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tli_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordExtraction records a completed extraction and its yield.
func (r *Recorder) RecordExtraction(path string, symbols, levels int) {
	r.extractions.WithLabelValues(path).Inc()
	r.extractedItems.WithLabelValues("symbol").Add(float64(symbols))
	r.extractedItems.WithLabelValues("level").Add(float64(levels))
}

// RecordProviderError records a market data provider failure.
func (r *Recorder) RecordProviderError(provider string) {
	r.providerErrors.WithLabelValues(provider).Inc()
}

// RecordEvaluation records a completed evaluation.
func (r *Recorder) RecordEvaluation(symbol, recommendation string) {
	r.evaluations.WithLabelValues(symbol, recommendation).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
