package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	modelsLoaded prometheus.Gauge
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salescast_predictions_total",
				Help: "Forecast requests by route and outcome",
			},
			[]string{"route", "outcome"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "salescast_prediction_duration_seconds",
				Help:    "Forecast latency in seconds by route",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
			[]string{"route"},
		),
		modelsLoaded: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "salescast_models_loaded",
				Help: "1 when every model artifact loaded at startup, 0 when degraded",
			},
		),
	}
}

// RecordPrediction counts one routed request.
func (r *Recorder) RecordPrediction(route, outcome string) {
	r.predictions.WithLabelValues(route, outcome).Inc()
}

// RecordLatency records prediction latency in seconds.
func (r *Recorder) RecordLatency(route string, seconds float64) {
	r.latency.WithLabelValues(route).Observe(seconds)
}

// SetModelsLoaded publishes the model state.
func (r *Recorder) SetModelsLoaded(loaded bool) {
	if loaded {
		r.modelsLoaded.Set(1)
		return
	}
	r.modelsLoaded.Set(0)
}
