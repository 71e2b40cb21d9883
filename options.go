package heap

import (
	"time"
)

// ConfigOption is a function that modifies a Config.
type ConfigOption func(*Config)

// WithAppID sets the Heap application ID.
func WithAppID(appID string) ConfigOption {
	return func(c *Config) {
		c.AppID = appID
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) ConfigOption {
	return func(c *Config) {
		c.UserAgent = userAgent
	}
}

// WithBaseURL sets a custom base URL for the Heap API.
func WithBaseURL(baseURL string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = baseURL
	}
}

// WithStubbed enables or disables stubbed mode.
func WithStubbed(stubbed bool) ConfigOption {
	return func(c *Config) {
		c.Stubbed = stubbed
	}
}

// WithHTTPClient sets the adapter used by the live transport.
func WithHTTPClient(client HTTPDoer) ConfigOption {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// WithTransportOptions sets the adapter arguments of the live transport.
func WithTransportOptions(opts ...TransportOption) ConfigOption {
	return func(c *Config) {
		c.TransportOptions = append(c.TransportOptions, opts...)
	}
}

// WithTransport replaces the live transport.
func WithTransport(t Transport) ConfigOption {
	return func(c *Config) {
		c.Transport = t
	}
}

// WithTimeout sets the request timeout of the default HTTP adapter.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithDebug enables debug logging.
func WithDebug(debug bool) ConfigOption {
	return func(c *Config) {
		c.Debug = debug
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger StructuredLogger) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(metrics Metrics) ConfigOption {
	return func(c *Config) {
		c.Metrics = metrics
	}
}

// TrackOption sets optional fields of a tracked event.
// Values are validated when Track runs, not when the option is built.
type TrackOption func(*trackOptions)

type trackOptions struct {
	timestamp         any
	hasTimestamp      bool
	idempotencyKey    any
	hasIdempotencyKey bool
}

// WithTimestamp sets the event time. It accepts a time.Time, an ISO-8601
// string or an integer.
func WithTimestamp(ts any) TrackOption {
	return func(o *trackOptions) {
		o.timestamp = ts
		o.hasTimestamp = true
	}
}

// WithIdempotencyKey sets a key the server uses to deduplicate retried
// submissions of the same event. It accepts a string or an integer.
func WithIdempotencyKey(key any) TrackOption {
	return func(o *trackOptions) {
		o.idempotencyKey = key
		o.hasIdempotencyKey = true
	}
}
