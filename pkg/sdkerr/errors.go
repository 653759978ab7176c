// Package sdkerr defines the error taxonomy shared by all SDK components.
// Every failure surfaced by the SDK is one of the types below; raw transport
// errors are carried as wrapped causes and never returned directly.
package sdkerr

import (
	"fmt"
)

// NetworkKind distinguishes the flavors of NetworkError.
type NetworkKind int

const (
	// KindGeneric covers transport failures that are neither a timeout nor a
	// failed connection attempt (e.g. a 503 from an intermediate gateway).
	KindGeneric NetworkKind = iota
	// KindTimeout means a single attempt exceeded its request timeout.
	KindTimeout
	// KindConnection means a connection could not be established.
	KindConnection
)

// String returns a short label for the kind, used in error messages and logs.
func (k NetworkKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	default:
		return "network"
	}
}

// ConfigError reports invalid or missing required configuration, such as an
// absent API key or an out-of-domain retry setting. It is never retried.
type ConfigError struct {
	Msg   string
	Cause error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("secretai: config: %s: %v", e.Msg, e.Cause)
	}
	return "secretai: config: " + e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// NewConfigError builds a ConfigError with a formatted message.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// NetworkError reports a transport-level failure. All kinds are retryable by
// default. Op names the operation that failed (e.g. "generate").
type NetworkError struct {
	Kind  NetworkKind
	Op    string
	Cause error
}

func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("secretai: %s %s failed: %v", e.Op, e.Kind, e.Cause)
	}
	return fmt.Sprintf("secretai: %s %s failed", e.Op, e.Kind)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// NewTimeoutError builds a NetworkError of kind KindTimeout.
func NewTimeoutError(op string, cause error) *NetworkError {
	return &NetworkError{Kind: KindTimeout, Op: op, Cause: cause}
}

// NewConnectionError builds a NetworkError of kind KindConnection.
func NewConnectionError(op string, cause error) *NetworkError {
	return &NetworkError{Kind: KindConnection, Op: op, Cause: cause}
}

// NewNetworkError builds a generic NetworkError.
func NewNetworkError(op string, cause error) *NetworkError {
	return &NetworkError{Kind: KindGeneric, Op: op, Cause: cause}
}

// ResponseError reports a payload that failed validation: absent, carrying an
// explicit server error marker, or structurally malformed. Retrying cannot fix
// bad data, so it is never retried. Response optionally holds the offending
// payload for inspection.
type ResponseError struct {
	Msg      string
	Response any
}

func (e *ResponseError) Error() string {
	return "secretai: invalid response: " + e.Msg
}

// NewResponseError builds a ResponseError carrying the offending payload.
func NewResponseError(msg string, response any) *ResponseError {
	return &ResponseError{Msg: msg, Response: response}
}

// RetryExhaustedError is returned after the full retry budget was consumed on
// a retryable error chain. Attempts is always max retries + 1; LastErr is the
// failure of the final attempt.
type RetryExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("secretai: all %d attempts failed, last error: %v", e.Attempts, e.LastErr)
}

func (e *RetryExhaustedError) Unwrap() error { return e.LastErr }
