// Package heaptest provides testing utilities for applications using the
// heap-go client.
//
// # Mock Server
//
// Use MockServer to record and inspect the HTTP requests the live transport
// sends:
//
//	server := heaptest.NewMockServer()
//	defer server.Close()
//
//	client, _ := heap.New("test-app-id", heap.WithBaseURL(server.URL))
//	// ... use client ...
//
//	req := server.LastRequest()
//	// assert on req.Path, req.UserAgent, req.Body
//
// # Mock Transport
//
// Use MockTransport to bypass HTTP entirely and assert on what the client
// handed to its transport, including that nothing was sent at all:
//
//	transport := heaptest.NewMockTransport()
//	client, _ := heap.New("test-app-id", heap.WithTransport(transport))
//	_, err := client.Track(ctx, "", "user", nil)
//	if transport.CallCount() != 0 {
//	    t.Error("invalid event reached the transport")
//	}
//
// # Test Client
//
// NewTestClient wires a client to a MockServer and closes the server when the
// test ends.
//
// # Mock Metrics and Logger
//
// MockMetrics and MockLogger capture telemetry for later verification.
package heaptest
