package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"

	heap "github.com/jdziat/heap-go"
)

// Namespace prefixes every exported metric.
const Namespace = "heap_client"

// PrometheusRecorder implements heap.Metrics using Prometheus metrics.
type PrometheusRecorder struct {
	counters  *prom.CounterVec
	durations *prom.HistogramVec
	gauges    *prom.GaugeVec
}

var _ heap.Metrics = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder constructs the metric vectors and registers them on
// reg. A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		counters: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "events_total",
			Help:      "Client counters by metric name",
		}, []string{"name"}),
		durations: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "duration_seconds",
			Help:      "Client durations by metric name",
			Buckets:   prom.DefBuckets,
		}, []string{"name"}),
		gauges: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: Namespace,
			Name:      "state",
			Help:      "Client gauges by metric name",
		}, []string{"name"}),
	}
	reg.MustRegister(pr.counters, pr.durations, pr.gauges)
	return pr
}

// IncrementCounter implements heap.Metrics. Negative values are ignored since
// Prometheus counters only go up.
func (p *PrometheusRecorder) IncrementCounter(name string, value int64) {
	if p == nil || value < 0 {
		return
	}
	p.counters.WithLabelValues(name).Add(float64(value))
}

// RecordDuration implements heap.Metrics.
func (p *PrometheusRecorder) RecordDuration(name string, d time.Duration) {
	if p == nil {
		return
	}
	p.durations.WithLabelValues(name).Observe(d.Seconds())
}

// SetGauge implements heap.Metrics.
func (p *PrometheusRecorder) SetGauge(name string, value float64) {
	if p == nil {
		return
	}
	p.gauges.WithLabelValues(name).Set(value)
}

// HTTPHandler returns an http.Handler that serves the metrics in reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
