// Package metrics provides a Prometheus implementation of heap.Metrics.
//
// Client metric names such as "heap.events.tracked" are not valid Prometheus
// names, so every value is recorded on one of three vectors labelled by the
// client's name:
//
//	heap_client_events_total{name="heap.events.tracked"}
//	heap_client_duration_seconds{name="heap.http.request_duration"}
//	heap_client_state{name="heap.stub.enabled"}
//
// Example usage:
//
//	reg := prometheus.NewRegistry()
//	client, err := heap.New(appID,
//	    heap.WithMetrics(metrics.NewPrometheusRecorder(reg)),
//	)
//	http.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
