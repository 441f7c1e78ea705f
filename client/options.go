package client

// This file defines functional options that configure the Client during
// construction.

import (
	"fmt"
	"time"
)

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithSession starts the client with an existing session id, e.g. one saved
// from an earlier Register call.
func WithSession(sessionID string) Option {
	return func(c *Client) error {
		c.session = sessionID
		return nil
	}
}

// WithHTTPTimeout bounds the total time spent on a single request.
// The value must be greater than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.rc.SetTimeout(d)
		return nil
	}
}

// WithRetries retries requests that fail at the transport level (connection
// refused, reset) up to n times with exponential backoff. Responses with an
// HTTP status are never retried.
func WithRetries(n int) Option {
	return func(c *Client) error {
		if n < 0 {
			return fmt.Errorf("retries must be >= 0")
		}
		c.rc.SetRetryCount(n).
			SetRetryWaitTime(200 * time.Millisecond).
			SetRetryMaxWaitTime(2 * time.Second)
		return nil
	}
}

// WithDebugLogging logs every request and response through zerolog at debug level.
// Bodies may include personal data; do not enable in production.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.rc.SetDebug(enabled)
		return nil
	}
}
