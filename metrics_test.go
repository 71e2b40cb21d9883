package heap

import (
	"sync"
	"testing"
	"time"
)

// countingMetrics records metrics in memory.
type countingMetrics struct {
	mu        sync.Mutex
	counters  map[string]int64
	gauges    map[string]float64
	durations map[string]int
}

func (m *countingMetrics) IncrementCounter(name string, value int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	m.counters[name] += value
}

func (m *countingMetrics) RecordDuration(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.durations == nil {
		m.durations = make(map[string]int)
	}
	m.durations[name]++
}

func (m *countingMetrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gauges == nil {
		m.gauges = make(map[string]float64)
	}
	m.gauges[name] = value
}

func (m *countingMetrics) counter(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

func (m *countingMetrics) gauge(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gauges[name]
}

func TestMetricsRecorderNilSafe(t *testing.T) {
	// Neither a nil recorder nor a recorder without Metrics may panic.
	var nilRecorder *metricsRecorder
	for _, r := range []*metricsRecorder{nilRecorder, newMetricsRecorder(nil)} {
		if r.enabled() {
			t.Error("enabled() = true without Metrics")
		}
		r.increment(MetricEventsTracked)
		r.recordHTTPResponse(200, time.Millisecond)
		r.setStubbed(true)
	}
}

func TestMetricsRecorderHTTPResponse(t *testing.T) {
	m := &countingMetrics{}
	r := newMetricsRecorder(m)

	for _, status := range []int{200, 204, 400, 404, 500, 302} {
		r.recordHTTPResponse(status, time.Millisecond)
	}

	if got := m.counter(MetricHTTP2xx); got != 2 {
		t.Errorf("2xx = %d, want 2", got)
	}
	if got := m.counter(MetricHTTP4xx); got != 2 {
		t.Errorf("4xx = %d, want 2", got)
	}
	if got := m.counter(MetricHTTP5xx); got != 1 {
		t.Errorf("5xx = %d, want 1", got)
	}
	if got := m.durations[MetricRequestDuration]; got != 6 {
		t.Errorf("durations = %d, want 6", got)
	}
}

func TestMetricsRecorderStubbedGauge(t *testing.T) {
	m := &countingMetrics{}
	r := newMetricsRecorder(m)

	r.setStubbed(true)
	if got := m.gauge(MetricStubbedMode); got != 1 {
		t.Errorf("gauge = %v, want 1", got)
	}
	r.setStubbed(false)
	if got := m.gauge(MetricStubbedMode); got != 0 {
		t.Errorf("gauge = %v, want 0", got)
	}
}
