package heap

import (
	"time"
)

// Metrics is an optional interface for client telemetry.
// pkg/metrics provides a Prometheus implementation.
type Metrics interface {
	// IncrementCounter increments a counter metric.
	IncrementCounter(name string, value int64)
	// RecordDuration records a duration metric.
	RecordDuration(name string, duration time.Duration)
	// SetGauge sets a gauge metric.
	SetGauge(name string, value float64)
}

// Metric names emitted by the client.
const (
	MetricRequestDuration  = "heap.http.request_duration"
	MetricHTTP2xx          = "heap.http.2xx"
	MetricHTTP4xx          = "heap.http.4xx"
	MetricHTTP5xx          = "heap.http.5xx"
	MetricTransportErrors  = "heap.http.transport_errors"
	MetricHookFailures     = "heap.http.hook_failures"
	MetricEventsTracked    = "heap.events.tracked"
	MetricPropertiesAdded  = "heap.user_properties.added"
	MetricValidationErrors = "heap.validation.errors"
	MetricStubbedRequests  = "heap.stub.requests"
	MetricStubbedMode      = "heap.stub.enabled"
)

// metricsRecorder wraps a possibly-nil Metrics with the client's metric names.
type metricsRecorder struct {
	metrics Metrics
}

func newMetricsRecorder(m Metrics) *metricsRecorder {
	return &metricsRecorder{metrics: m}
}

func (r *metricsRecorder) enabled() bool {
	return r != nil && r.metrics != nil
}

func (r *metricsRecorder) recordHTTPResponse(statusCode int, duration time.Duration) {
	if !r.enabled() {
		return
	}
	r.metrics.RecordDuration(MetricRequestDuration, duration)

	switch {
	case statusCode >= 200 && statusCode < 300:
		r.metrics.IncrementCounter(MetricHTTP2xx, 1)
	case statusCode >= 400 && statusCode < 500:
		r.metrics.IncrementCounter(MetricHTTP4xx, 1)
	case statusCode >= 500:
		r.metrics.IncrementCounter(MetricHTTP5xx, 1)
	}
}

func (r *metricsRecorder) increment(name string) {
	if !r.enabled() {
		return
	}
	r.metrics.IncrementCounter(name, 1)
}

func (r *metricsRecorder) setStubbed(stubbed bool) {
	if !r.enabled() {
		return
	}
	v := 0.0
	if stubbed {
		v = 1
	}
	r.metrics.SetGauge(MetricStubbedMode, v)
}
