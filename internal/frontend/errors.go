package frontend

import (
	"errors"
	"fmt"
)

// Configuration and lifecycle errors surfaced to the caller at startup.
var (
	// ErrNoListeners is returned when neither a TCP nor a WebSocket port
	// is configured.
	ErrNoListeners = errors.New("no listener port configured")

	// ErrPortConflict is returned when the TCP and WebSocket ports are
	// both set to the same value.
	ErrPortConflict = errors.New("tcp and websocket ports must differ")

	// ErrAlreadyRunning is returned by Run when the server is already
	// running, and by Start when the listeners are already bound.
	ErrAlreadyRunning = errors.New("server is already running")

	// ErrNotStarted is returned by Run when Start has not succeeded.
	ErrNotStarted = errors.New("server has not been started")

	// ErrShutdown is returned by Run once Shutdown has begun; a stopped
	// server cannot be restarted.
	ErrShutdown = errors.New("server has been shut down")
)

// BindError reports a failure to bind one of the configured listeners,
// covering both address-already-in-use and permission-denied causes. It
// wraps the underlying error so callers can inspect the OS-level cause.
type BindError struct {
	// Transport is the listener that failed to bind.
	Transport Transport
	// Addr is the listen address that was requested.
	Addr string
	// Err is the underlying error from the network stack.
	Err error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	return fmt.Sprintf("binding %s listener on %s: %v", e.Transport, e.Addr, e.Err)
}

// Unwrap returns the underlying bind failure.
func (e *BindError) Unwrap() error {
	return e.Err
}
