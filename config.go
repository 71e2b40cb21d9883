package heap

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Version is the version of this library, reported in the default User-Agent.
const Version = "1.0.0"

// Default configuration values.
const (
	// DefaultTimeout is the request timeout of the default HTTP adapter.
	DefaultTimeout = 10 * time.Second

	// MaxTimeout is the largest accepted request timeout.
	MaxTimeout = 5 * time.Minute
)

// DefaultUserAgent returns the User-Agent sent when none is configured.
func DefaultUserAgent() string {
	return fmt.Sprintf("heap-go/%s go/%s (%s/%s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Config holds the configuration for the Heap client.
// The yaml tags let a Config be loaded with LoadConfigFile.
type Config struct {
	// AppID is the Heap application ID. It may be empty at construction but
	// must be set before Track or AddUserProperties is called.
	AppID string `yaml:"app_id"`

	// UserAgent is sent with every request.
	// Defaults to DefaultUserAgent().
	UserAgent string `yaml:"user_agent"`

	// BaseURL is the Heap API host. Defaults to DefaultBaseURL; override it
	// only to point at a proxy or a test server.
	BaseURL string `yaml:"base_url"`

	// Stubbed routes every request to an in-memory transport that answers
	// both endpoints with success and never touches the network.
	Stubbed bool `yaml:"stubbed"`

	// Debug enables debug logging to stderr when no Logger is set.
	Debug bool `yaml:"debug"`

	// Timeout is the request timeout of the default HTTP adapter.
	// Ignored when HTTPClient is set. Defaults to 10 seconds.
	Timeout time.Duration `yaml:"timeout"`

	// HTTPClient is the adapter used by the live transport.
	// If nil, an *http.Client with Timeout is used.
	HTTPClient HTTPDoer `yaml:"-"`

	// TransportOptions are the adapter arguments applied when the live
	// transport is built.
	TransportOptions []TransportOption `yaml:"-"`

	// Transport replaces the live transport entirely. Stubbed mode still
	// takes precedence over it.
	Transport Transport `yaml:"-"`

	// Logger receives debug-level request logging.
	// If nil, logging is disabled unless Debug is true.
	Logger StructuredLogger `yaml:"-"`

	// Metrics is used for client telemetry.
	// If nil, no metrics are collected.
	Metrics Metrics `yaml:"-"`
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf("Config{AppID: %q, BaseURL: %q, Stubbed: %t, Timeout: %v, UserAgent: %q}",
		c.AppID, c.BaseURL, c.Stubbed, c.Timeout, c.UserAgent)
}

// applyDefaults sets default values for unset configuration options.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent()
	}

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	if c.Debug && c.Logger == nil {
		c.Logger = NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	if c.Logger == nil {
		c.Logger = NopLogger{}
	}

	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
}

// validate checks that the configuration is usable. The app ID is checked
// per call, not here.
func (c *Config) validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("heap: invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("heap: base URL must use http or https, got %q", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("heap: timeout cannot be negative, got %v", c.Timeout)
	}
	if c.Timeout > MaxTimeout {
		return fmt.Errorf("heap: timeout cannot exceed %v, got %v", MaxTimeout, c.Timeout)
	}
	return nil
}

// LoadConfigFile reads a YAML configuration file.
//
//	app_id: "1234567890"
//	stubbed: false
//	timeout: 5s
//
// Fields that are not serializable (HTTPClient, Transport, Logger, Metrics)
// are left nil and can be set on the returned Config.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("heap: failed to read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("heap: failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}
