package heap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the Heap API host.
const DefaultBaseURL = "https://heapanalytics.com"

// API endpoint paths.
const (
	PathTrack             = "/api/track"
	PathAddUserProperties = "/api/add_user_properties"
)

// ErrUnstubbedPath is returned by the stub transport for any path other than
// the two known endpoints.
var ErrUnstubbedPath = errors.New("heap: no stubbed response for path")

// HTTPDoer is the adapter the live transport sends requests through.
// *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Transport posts a JSON body to an API path and returns the raw response.
// Implementations return network failures as errors and every HTTP response,
// successful or not, as a Response.
type Transport interface {
	Post(ctx context.Context, path string, body any, header http.Header) (*Response, error)
}

// Response is the status, headers and body returned by a Transport.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Success reports whether the status is 2xx.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// TransportOption configures the live transport. These are the adapter
// arguments of a client and are frozen once the live transport exists.
type TransportOption func(*transportSettings)

type transportSettings struct {
	header http.Header
	hooks  []HTTPHook
}

// WithRequestHeader adds a header to every request sent by the live transport.
func WithRequestHeader(key, value string) TransportOption {
	return func(s *transportSettings) {
		if s.header == nil {
			s.header = make(http.Header)
		}
		s.header.Add(key, value)
	}
}

// WithRequestHooks appends hooks run around every live request.
func WithRequestHooks(hooks ...HTTPHook) TransportOption {
	return func(s *transportSettings) {
		s.hooks = append(s.hooks, hooks...)
	}
}

// liveTransport sends requests to the Heap API through an HTTPDoer.
type liveTransport struct {
	baseURL string
	doer    HTTPDoer
	header  http.Header
	hook    HTTPHook
	logger  StructuredLogger
	metrics *metricsRecorder
}

func newLiveTransport(baseURL string, doer HTTPDoer, logger StructuredLogger, metrics *metricsRecorder, opts []TransportOption) *liveTransport {
	var settings transportSettings
	for _, opt := range opts {
		opt(&settings)
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &liveTransport{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		doer:    doer,
		header:  settings.header,
		hook:    combineHooks(settings.hooks),
		logger:  logger,
		metrics: metrics,
	}
}

// Post implements Transport. Errors from the adapter are returned unmodified.
func (t *liveTransport) Post(ctx context.Context, path string, body any, header http.Header) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("heap: failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("heap: failed to create request: %w", err)
	}

	for k, vs := range t.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, vs := range header {
		req.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	req.Header.Set("Content-Type", "application/json")

	if t.hook != nil {
		if err := t.hook.BeforeRequest(ctx, req); err != nil {
			t.metrics.increment(MetricHookFailures)
			return nil, fmt.Errorf("heap: request hook failed: %w", err)
		}
	}

	t.logger.Debug("heap: POST", "path", path, "bytes", len(payload))

	start := time.Now()
	resp, err := t.doer.Do(req)
	duration := time.Since(start)

	if t.hook != nil {
		t.hook.AfterResponse(ctx, req, resp, duration, err)
	}
	if err != nil {
		t.metrics.increment(MetricTransportErrors)
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.metrics.increment(MetricTransportErrors)
		return nil, err
	}

	t.metrics.recordHTTPResponse(resp.StatusCode, duration)
	t.logger.Debug("heap: response", "path", path, "status", resp.StatusCode, "duration", duration)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// stubTransport answers the two Heap endpoints locally with 204 No Content.
type stubTransport struct {
	metrics *metricsRecorder
}

// NewStubTransport returns the transport used in stubbed mode. It never
// touches the network.
func NewStubTransport() Transport {
	return &stubTransport{}
}

// Post implements Transport.
func (t *stubTransport) Post(ctx context.Context, path string, body any, header http.Header) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Encode anyway so stubbed mode rejects the same bodies the live one would.
	if _, err := json.Marshal(body); err != nil {
		return nil, fmt.Errorf("heap: failed to marshal request body: %w", err)
	}

	switch path {
	case PathTrack, PathAddUserProperties:
		t.metrics.increment(MetricStubbedRequests)
		return &Response{StatusCode: http.StatusNoContent, Header: make(http.Header)}, nil
	default:
		return nil, fmt.Errorf("%w: POST %s", ErrUnstubbedPath, path)
	}
}
