package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFormat     = errors.New("unknown output format")
	ErrNoSources         = errors.New("conversion request has no sources")
	ErrNoImplementation  = errors.New("no implementation registered")
	ErrUnknownPlugin     = errors.New("unknown plugin")
	ErrUnexpectedStatus  = errors.New("unexpected response status")
	ErrUnsupportedOutput = errors.New("unsupported output destination")
)

// ClientError indicates the service answered with a non-2xx status.
// Body holds the raw response text.
type ClientError struct {
	StatusCode int
	Body       string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("docling request failed (status %d): %s", e.StatusCode, e.Body)
}

func (e *ClientError) Unwrap() error {
	return ErrUnexpectedStatus
}

// ConfigError is returned when a client cannot be built because a required
// capability has no implementation.
type ConfigError struct {
	Capability string
	Hint       string
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("no %s implementation available", e.Capability)
	if e.Hint != "" {
		msg += ": " + e.Hint
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return ErrNoImplementation
}
