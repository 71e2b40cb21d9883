package heaptest

import (
	heap "github.com/jdziat/heap-go"
)

// TestingT is an interface that matches *testing.T and *testing.B.
type TestingT interface {
	Fatalf(format string, args ...any)
	Cleanup(func())
	Helper()
}

// TestAppID is the application ID used by the test clients.
const TestAppID = "test-app-id"

// NewTestClient creates a client pointed at a fresh MockServer.
// The server is closed when the test ends.
func NewTestClient(t TestingT) (*heap.Client, *MockServer) {
	t.Helper()
	return NewTestClientWithConfig(t)
}

// NewTestClientWithConfig creates a client pointed at a fresh MockServer.
// The base URL is applied first, then the provided options on top.
func NewTestClientWithConfig(t TestingT, opts ...heap.ConfigOption) (*heap.Client, *MockServer) {
	t.Helper()

	server := NewMockServer()
	t.Cleanup(server.Close)

	allOpts := append([]heap.ConfigOption{heap.WithBaseURL(server.URL)}, opts...)
	client, err := heap.New(TestAppID, allOpts...)
	if err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}

	return client, server
}

// NewTransportClient creates a client whose live transport is a MockTransport.
func NewTransportClient(t TestingT, opts ...heap.ConfigOption) (*heap.Client, *MockTransport) {
	t.Helper()

	transport := NewMockTransport()
	allOpts := append([]heap.ConfigOption{heap.WithTransport(transport)}, opts...)
	client, err := heap.New(TestAppID, allOpts...)
	if err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}
	return client, transport
}
