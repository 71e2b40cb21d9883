package heaptest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockServer is a test HTTP server that records requests for verification.
type MockServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*RecordedRequest

	// responseFunc customizes responses. If nil, every request gets 200 with
	// an empty body.
	responseFunc func(r *http.Request) (int, string)
}

// RecordedRequest represents a recorded HTTP request.
type RecordedRequest struct {
	Method      string
	Path        string
	Body        []byte
	ContentType string
	UserAgent   string
	Header      http.Header
}

// DecodeJSON unmarshals the recorded body into v.
func (r *RecordedRequest) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// NewMockServer creates a new mock server for testing.
func NewMockServer() *MockServer {
	ms := &MockServer{
		requests: make([]*RecordedRequest, 0),
	}

	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		ms.mu.Lock()
		ms.requests = append(ms.requests, &RecordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Body:        body,
			ContentType: r.Header.Get("Content-Type"),
			UserAgent:   r.Header.Get("User-Agent"),
			Header:      r.Header.Clone(),
		})
		fn := ms.responseFunc
		ms.mu.Unlock()

		status, response := http.StatusOK, ""
		if fn != nil {
			status, response = fn(r)
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))

	return ms
}

// Requests returns all recorded requests.
func (ms *MockServer) Requests() []*RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return append([]*RecordedRequest{}, ms.requests...)
}

// RequestCount returns the number of recorded requests.
func (ms *MockServer) RequestCount() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.requests)
}

// Reset clears all recorded requests.
func (ms *MockServer) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.requests = make([]*RecordedRequest, 0)
}

// LastRequest returns the most recent request, or nil if none.
func (ms *MockServer) LastRequest() *RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if len(ms.requests) == 0 {
		return nil
	}
	return ms.requests[len(ms.requests)-1]
}

// RequestsWithPath returns all requests that matched the given path.
func (ms *MockServer) RequestsWithPath(path string) []*RecordedRequest {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	var matched []*RecordedRequest
	for _, req := range ms.requests {
		if req.Path == path {
			matched = append(matched, req)
		}
	}
	return matched
}

// SetResponseFunc sets the function that builds each response.
func (ms *MockServer) SetResponseFunc(fn func(r *http.Request) (int, string)) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.responseFunc = fn
}

// Response scenarios

// RespondWithSuccess answers every request with 200 and an empty body.
func (ms *MockServer) RespondWithSuccess() {
	ms.SetResponseFunc(nil)
}

// RespondWith answers every request with the given status and plain-text body.
func (ms *MockServer) RespondWith(statusCode int, body string) {
	ms.SetResponseFunc(func(r *http.Request) (int, string) {
		return statusCode, body
	})
}

// RespondWithBadRequest answers with 400 "Bad request", the Heap API's
// response to a malformed call.
func (ms *MockServer) RespondWithBadRequest() {
	ms.RespondWith(http.StatusBadRequest, "Bad request")
}

// RespondWithServerError answers with 500.
func (ms *MockServer) RespondWithServerError() {
	ms.RespondWith(http.StatusInternalServerError, "Internal server error")
}
