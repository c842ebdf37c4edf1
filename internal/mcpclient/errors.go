package mcpclient

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEndpoint indicates the server URL could not be parsed or lacks a scheme/host
	ErrInvalidEndpoint = errors.New("invalid server url")

	// ErrToolNotFound indicates no tool with the requested name is advertised
	ErrToolNotFound = errors.New("tool not found")

	// ErrNoOutputTemplate indicates the tool does not reference a widget template
	ErrNoOutputTemplate = errors.New("tool has no output template")

	// ErrInvalidResource indicates a template resource has no textual body
	ErrInvalidResource = errors.New("resource has no text content")
)

// ErrConnection is returned when the transport to the server cannot be established
type ErrConnection struct {
	Endpoint string
	Err      error
}

func (e ErrConnection) Error() string {
	return fmt.Sprintf("connect to %s: %v", e.Endpoint, e.Err)
}

func (e ErrConnection) Unwrap() error { return e.Err }

// ErrInvocation is returned when a tools/call round trip fails or the tool reports an error
type ErrInvocation struct {
	Tool string
	Err  error
}

func (e ErrInvocation) Error() string {
	return fmt.Sprintf("call tool %s: %v", e.Tool, e.Err)
}

func (e ErrInvocation) Unwrap() error { return e.Err }
