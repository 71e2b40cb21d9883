package heap

import (
	"fmt"
	"os"
	"time"
)

// Environment variable names for configuration.
const (
	// EnvAppID is the environment variable for the Heap application ID.
	EnvAppID = "HEAP_APP_ID"
	// EnvUserAgent overrides the User-Agent header.
	EnvUserAgent = "HEAP_USER_AGENT"
	// EnvBaseURL is the environment variable for the Heap API base URL.
	EnvBaseURL = "HEAP_BASE_URL"
	// EnvStubbed enables stubbed mode when "true" or "1".
	EnvStubbed = "HEAP_STUBBED"
	// EnvDebug enables debug logging when "true" or "1".
	EnvDebug = "HEAP_DEBUG"
	// EnvTimeout is a Go duration string such as "5s".
	EnvTimeout = "HEAP_TIMEOUT"
)

// NewFromEnv creates a new client using environment variables for
// configuration. Explicit options override values read from the environment.
//
// Example:
//
//	client, err := heap.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewFromEnv(opts ...ConfigOption) (*Client, error) {
	envOpts, err := ConfigOptionsFromEnv()
	if err != nil {
		return nil, err
	}
	return New(os.Getenv(EnvAppID), append(envOpts, opts...)...)
}

// ConfigOptionsFromEnv translates the HEAP_* variables that are set into
// ConfigOptions. HEAP_APP_ID is included.
func ConfigOptionsFromEnv() ([]ConfigOption, error) {
	opts := make([]ConfigOption, 0, 6)

	if appID := os.Getenv(EnvAppID); appID != "" {
		opts = append(opts, WithAppID(appID))
	}
	if ua := os.Getenv(EnvUserAgent); ua != "" {
		opts = append(opts, WithUserAgent(ua))
	}
	if baseURL := os.Getenv(EnvBaseURL); baseURL != "" {
		opts = append(opts, WithBaseURL(baseURL))
	}
	if envBool(EnvStubbed) {
		opts = append(opts, WithStubbed(true))
	}
	if envBool(EnvDebug) {
		opts = append(opts, WithDebug(true))
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("heap: invalid %s %q: %w", EnvTimeout, v, err)
		}
		opts = append(opts, WithTimeout(d))
	}

	return opts, nil
}

func envBool(name string) bool {
	v := os.Getenv(name)
	return v == "true" || v == "1"
}
