package config

import "errors"

var (
	// ErrMissingListenAddr indicates that the listen address is not configured
	ErrMissingListenAddr = errors.New("listenAddr is required in configuration")

	// ErrMissingLocalOrigins indicates that no local origins are configured
	ErrMissingLocalOrigins = errors.New("localOrigins must list at least one origin")

	// ErrUnknownTransport indicates an unsupported client transport
	ErrUnknownTransport = errors.New("transport must be one of: sse, streamable")

	// ErrInvalidRetryAfter indicates a non-positive retry delay
	ErrInvalidRetryAfter = errors.New("retryAfterSeconds must be positive")

	// ErrInvalidRateLimit indicates a negative rate or a rate without a burst
	ErrInvalidRateLimit = errors.New("rateLimitPerMinute and rateLimitBurst must be non-negative, and a rate needs a burst")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("logLevel must be one of: debug, info, warn, error")

	// ErrConfigFileNotFound indicates that the config file was not found
	ErrConfigFileNotFound = errors.New("configuration file not found")

	// ErrInvalidConfigFormat indicates that the config file could not be decoded
	ErrInvalidConfigFormat = errors.New("invalid configuration file format")
)
