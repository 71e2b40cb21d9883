package heaptest

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	heap "github.com/jdziat/heap-go"
)

var _ heap.Transport = (*MockTransport)(nil)

// Call is one recorded MockTransport.Post invocation.
type Call struct {
	Path   string
	Body   []byte // JSON encoding of the body argument
	Header http.Header
}

// DecodeJSON unmarshals the recorded body into v.
func (c *Call) DecodeJSON(v any) error {
	return json.Unmarshal(c.Body, v)
}

// MockTransport is an in-memory heap.Transport that records calls and returns
// a configurable response or error.
type MockTransport struct {
	mu       sync.Mutex
	calls    []*Call
	response *heap.Response
	err      error
}

// NewMockTransport returns a transport that answers every call with 200.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		response: &heap.Response{StatusCode: http.StatusOK, Header: make(http.Header)},
	}
}

// Post implements heap.Transport.
func (m *MockTransport) Post(ctx context.Context, path string, body any, header http.Header) (*heap.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, &Call{Path: path, Body: encoded, Header: header.Clone()})
	if m.err != nil {
		return nil, m.err
	}
	resp := *m.response
	return &resp, nil
}

// RespondWith makes subsequent calls return the given status and body.
func (m *MockTransport) RespondWith(statusCode int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = nil
	m.response = &heap.Response{StatusCode: statusCode, Header: make(http.Header), Body: []byte(body)}
}

// FailWith makes subsequent calls return err, as a broken network would.
func (m *MockTransport) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns all recorded calls.
func (m *MockTransport) Calls() []*Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Call{}, m.calls...)
}

// CallCount returns the number of recorded calls.
func (m *MockTransport) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastCall returns the most recent call, or nil if none.
func (m *MockTransport) LastCall() *Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}
