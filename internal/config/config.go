package config

import (
	"time"

	"github.com/erauner12/widget-harness/internal/mcpclient"
)

// Config holds all configuration for the widget harness
type Config struct {
	ListenAddr string `json:"listenAddr" yaml:"listenAddr"`

	// LocalOrigins are the harness origins always present in rendered policies
	LocalOrigins []string `json:"localOrigins" yaml:"localOrigins"`

	// Transport is the client transport used to reach tool servers (sse, streamable)
	Transport string `json:"transport" yaml:"transport"`

	// AllowInsecureTransport skips TLS verification on sessions to tool servers
	AllowInsecureTransport bool `json:"allowInsecureTransport" yaml:"allowInsecureTransport"`

	// RetryAfterSeconds is the Refresh delay on the connection-retry page
	RetryAfterSeconds int `json:"retryAfterSeconds" yaml:"retryAfterSeconds"`

	// DemoQuery is the query argument used by /demo when none is given
	DemoQuery string `json:"demoQuery" yaml:"demoQuery"`

	// RateLimitPerMinute and RateLimitBurst bound session-opening requests per client.
	// A zero RateLimitPerMinute disables limiting.
	RateLimitPerMinute int `json:"rateLimitPerMinute" yaml:"rateLimitPerMinute"`
	RateLimitBurst     int `json:"rateLimitBurst" yaml:"rateLimitBurst"`

	Debug    bool   `json:"debug" yaml:"debug"`
	LogLevel string `json:"logLevel" yaml:"logLevel"`
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return ErrMissingListenAddr
	}

	if len(c.LocalOrigins) == 0 {
		return ErrMissingLocalOrigins
	}

	switch mcpclient.TransportKind(c.Transport) {
	case mcpclient.TransportSSE, mcpclient.TransportStreamable:
	default:
		return ErrUnknownTransport
	}

	if c.RetryAfterSeconds <= 0 {
		return ErrInvalidRetryAfter
	}

	if c.RateLimitPerMinute < 0 || c.RateLimitBurst < 0 || (c.RateLimitPerMinute > 0 && c.RateLimitBurst == 0) {
		return ErrInvalidRateLimit
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	return nil
}

// RetryAfter returns the retry-page delay as a duration
func (c *Config) RetryAfter() time.Duration {
	return time.Duration(c.RetryAfterSeconds) * time.Second
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ListenAddr: ":3112",
		LocalOrigins: []string{
			"http://localhost:3112",
			"wss://localhost:8225",
			"https://localhost:8226",
		},
		Transport:          string(mcpclient.TransportSSE),
		RetryAfterSeconds:  3,
		DemoQuery:          "dividing fractions",
		RateLimitPerMinute: 120,
		RateLimitBurst:     30,
		LogLevel:           "info",
	}
}
