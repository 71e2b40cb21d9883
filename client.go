package heap

import (
	"context"
	"net/http"
	"sync"
)

// Client sends server-side events and user properties to the Heap API.
//
// Configuration may be changed between calls. The live transport is built on
// first use; after that its adapter and adapter options are frozen.
// A Client is safe for concurrent use as long as its Transport is.
type Client struct {
	mu sync.Mutex

	appID     string
	userAgent string
	stubbed   bool

	// Adapter and adapter arguments of the live transport.
	adapter        HTTPDoer
	adapterOptions []TransportOption

	baseURL string
	custom  Transport
	logger  StructuredLogger
	metrics *metricsRecorder

	// transport is the current selection; live and stub are memoized
	// separately so toggling stubbed mode reuses them.
	transport Transport
	live      Transport
	stub      Transport
}

// New creates a new Heap client. appID may be empty and set later with
// SetAppID, but every send fails with ErrMissingAppID until it is.
func New(appID string, opts ...ConfigOption) (*Client, error) {
	cfg := &Config{AppID: appID}
	for _, opt := range opts {
		opt(cfg)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a new Heap client from a Config struct.
//
// Example:
//
//	client, err := heap.NewWithConfig(&heap.Config{
//	    AppID:   os.Getenv("HEAP_APP_ID"),
//	    Timeout: 5 * time.Second,
//	})
func NewWithConfig(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	// Make a copy to avoid modifying the original
	cfgCopy := *cfg
	cfgCopy.TransportOptions = append([]TransportOption(nil), cfg.TransportOptions...)

	cfgCopy.applyDefaults()

	if err := cfgCopy.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		appID:          cfgCopy.AppID,
		userAgent:      cfgCopy.UserAgent,
		stubbed:        cfgCopy.Stubbed,
		adapter:        cfgCopy.HTTPClient,
		adapterOptions: cfgCopy.TransportOptions,
		baseURL:        cfgCopy.BaseURL,
		custom:         cfgCopy.Transport,
		logger:         cfgCopy.Logger,
		metrics:        newMetricsRecorder(cfgCopy.Metrics),
	}
	c.metrics.setStubbed(c.stubbed)
	return c, nil
}

// Track sends a custom server-side event.
//
// The event name, identity, properties and any options are validated before
// anything is sent. properties may be nil. On success the client itself is
// returned so calls can be chained.
//
//	_, err := client.Track(ctx, "signup", "alice@example.com",
//	    heap.Properties{"plan": "pro"},
//	    heap.WithIdempotencyKey(orderID),
//	)
func (c *Client) Track(ctx context.Context, event string, identity any, properties any, opts ...TrackOption) (*Client, error) {
	var o trackOptions
	for _, opt := range opts {
		opt(&o)
	}

	appID := c.AppID()
	if err := ValidateAppID(appID); err != nil {
		return nil, err
	}
	if err := ValidateEventName(event); err != nil {
		return nil, c.invalid(err)
	}
	id, err := ValidateIdentity(identity)
	if err != nil {
		return nil, c.invalid(err)
	}

	body := &TrackRequest{
		AppID:    appID,
		Identity: id,
		Event:    event,
	}

	props, err := ValidateProperties(properties)
	if err != nil {
		return nil, c.invalid(err)
	}
	body.Properties = props

	if o.hasTimestamp {
		ts, err := ValidateTimestamp(o.timestamp)
		if err != nil {
			return nil, c.invalid(err)
		}
		body.Timestamp = &ts
	}
	if o.hasIdempotencyKey {
		key, err := ValidateIdempotencyKey(o.idempotencyKey)
		if err != nil {
			return nil, c.invalid(err)
		}
		body.IdempotencyKey = &key
	}

	if err := c.send(ctx, PathTrack, body); err != nil {
		return nil, err
	}
	c.metrics.increment(MetricEventsTracked)
	return c, nil
}

// AddUserProperties attaches properties to an existing user identity.
// Unlike Track, properties are required.
func (c *Client) AddUserProperties(ctx context.Context, identity any, properties any) (*Client, error) {
	appID := c.AppID()
	if err := ValidateAppID(appID); err != nil {
		return nil, err
	}
	id, err := ValidateIdentity(identity)
	if err != nil {
		return nil, c.invalid(err)
	}
	props, err := ValidateProperties(properties)
	if err != nil {
		return nil, c.invalid(err)
	}
	if props == nil {
		return nil, c.invalid(NewValidationError("properties", "missing properties", ErrMissingValue))
	}

	body := &UserPropertiesRequest{
		AppID:      appID,
		Identity:   id,
		Properties: props,
	}
	if err := c.send(ctx, PathAddUserProperties, body); err != nil {
		return nil, err
	}
	c.metrics.increment(MetricPropertiesAdded)
	return c, nil
}

// send posts body and converts a non-2xx response into an *APIError.
// Transport errors are returned as they are.
func (c *Client) send(ctx context.Context, path string, body any) error {
	transport := c.Transport()

	header := make(http.Header)
	header.Set("User-Agent", c.UserAgent())

	resp, err := transport.Post(ctx, path, body, header)
	if err != nil {
		return err
	}
	if resp == nil {
		return ErrNoResponse
	}
	if !resp.Success() {
		return NewAPIError(resp)
	}
	return nil
}

func (c *Client) invalid(err error) error {
	c.metrics.increment(MetricValidationErrors)
	return err
}

// Transport returns the transport used for requests, building it on first
// use: the stub transport in stubbed mode, otherwise the configured custom
// Transport or a live transport over the adapter.
func (c *Client) Transport() Transport {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transport == nil {
		if c.stubbed {
			c.transport = c.stubTransportLocked()
		} else {
			c.transport = c.liveTransportLocked()
		}
	}
	return c.transport
}

func (c *Client) liveTransportLocked() Transport {
	if c.live == nil {
		if c.custom != nil {
			c.live = c.custom
		} else {
			c.live = newLiveTransport(c.baseURL, c.adapter, c.logger, c.metrics, c.adapterOptions)
		}
		c.logger.Debug("heap: live transport initialized", "base_url", c.baseURL)
	}
	return c.live
}

func (c *Client) stubTransportLocked() Transport {
	if c.stub == nil {
		c.stub = &stubTransport{metrics: c.metrics}
		c.logger.Debug("heap: stub transport initialized")
	}
	return c.stub
}

// AppID returns the Heap application ID.
func (c *Client) AppID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appID
}

// SetAppID sets the Heap application ID.
func (c *Client) SetAppID(appID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appID = appID
}

// UserAgent returns the User-Agent header value.
func (c *Client) UserAgent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userAgent
}

// SetUserAgent sets the User-Agent header value.
func (c *Client) SetUserAgent(userAgent string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userAgent = userAgent
}

// Stubbed reports whether requests are answered by the stub transport.
func (c *Client) Stubbed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stubbed
}

// SetStubbed switches stubbed mode. The transport is reselected on next use.
func (c *Client) SetStubbed(stubbed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transport = nil
	c.stubbed = stubbed
	c.metrics.setStubbed(stubbed)
}

// Adapter returns the HTTP adapter of the live transport.
func (c *Client) Adapter() HTTPDoer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adapter
}

// SetAdapter replaces the HTTP adapter. It fails with ErrTransportInitialized
// once the live transport has been built.
func (c *Client) SetAdapter(adapter HTTPDoer) error {
	if adapter == nil {
		return NewValidationError("adapter", "adapter cannot be nil", ErrMissingValue)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.live != nil {
		return ErrTransportInitialized
	}
	c.adapter = adapter
	return nil
}

// AdapterOptions returns a copy of the live transport's options.
func (c *Client) AdapterOptions() []TransportOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]TransportOption(nil), c.adapterOptions...)
}

// SetAdapterOptions replaces the live transport's options. It fails with
// ErrTransportInitialized once the live transport has been built, leaving the
// previous options in place.
func (c *Client) SetAdapterOptions(opts ...TransportOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.live != nil {
		return ErrTransportInitialized
	}
	c.adapterOptions = append([]TransportOption(nil), opts...)
	return nil
}
