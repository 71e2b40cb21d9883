package heap

import (
	"context"
	"sync/atomic"
)

// defaultClient backs the package-level Track and AddUserProperties.
var defaultClient atomic.Pointer[Client]

// SetDefault installs c as the process-wide client used by the package-level
// functions. Applications call it once at startup; passing nil clears it.
//
//	client, err := heap.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	heap.SetDefault(client)
//
//	// elsewhere
//	heap.Track(ctx, "login", userID, nil)
func SetDefault(c *Client) {
	defaultClient.Store(c)
}

// Default returns the process-wide client, or nil if none was installed.
func Default() *Client {
	return defaultClient.Load()
}

// Track calls Track on the default client.
func Track(ctx context.Context, event string, identity any, properties any, opts ...TrackOption) (*Client, error) {
	c := Default()
	if c == nil {
		return nil, ErrNoDefaultClient
	}
	return c.Track(ctx, event, identity, properties, opts...)
}

// AddUserProperties calls AddUserProperties on the default client.
func AddUserProperties(ctx context.Context, identity any, properties any) (*Client, error) {
	c := Default()
	if c == nil {
		return nil, ErrNoDefaultClient
	}
	return c.AddUserProperties(ctx, identity, properties)
}
