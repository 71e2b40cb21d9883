// Package heap is a client for the Heap server-side API.
//
// It records custom events (Track) and attaches properties to user
// identities (AddUserProperties). Arguments are checked against the API's
// documented limits before anything is sent, and non-2xx responses come back
// as *APIError.
//
// # Quick Start
//
//	client, err := heap.New(os.Getenv("HEAP_APP_ID"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_, err = client.Track(ctx, "purchase", "alice@example.com", heap.Properties{
//	    "sku":   "A-100",
//	    "total": 42.5,
//	}, heap.WithTimestamp(time.Now()))
//
//	_, err = client.AddUserProperties(ctx, "alice@example.com", heap.Properties{
//	    "plan": "pro",
//	})
//
// # Errors
//
// Three kinds of error are produced by this package and can be told apart
// with errors.As:
//
//   - *ConfigError: the client is not usable yet, e.g. ErrMissingAppID.
//   - *ValidationError: an argument violates an API limit. Nothing was sent.
//   - *APIError: the server answered with a non-2xx status.
//
// Errors from the HTTP adapter (connection refused, timeouts, cancelled
// contexts) are returned unchanged. The client never retries.
//
// # Stubbed Mode
//
// With WithStubbed(true) or SetStubbed(true), both endpoints answer 204 No
// Content locally without any network access. This is meant for tests and
// development environments.
//
// # Transport Configuration
//
// The live transport is built lazily on the first request. Until then the
// HTTP adapter (SetAdapter) and its options (SetAdapterOptions) can be
// changed; afterwards both setters fail with ErrTransportInitialized.
package heap
