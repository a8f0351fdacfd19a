// Package frontend implements the dual-transport connection server. It
// accepts clients over raw TCP and WebSocket simultaneously, assigns each a
// stable connection identity, and bridges every connection's stream to the
// game layer through the GameBridge interface.
package frontend

import "context"

// ConnID identifies one accepted client for its lifetime. IDs are minted
// from a single monotonic counter shared by both transports and are never
// reused within a process.
type ConnID uint64

// GameBridge is the narrow interface by which the game layer consumes and
// drives the connection server. The server guarantees that for any id,
// OnConnect strictly precedes every OnInput and the single OnDisconnect,
// and that OnInput calls arrive in wire order.
type GameBridge interface {
	// OnConnect is fired once per new connection, before any OnInput for
	// that id. It runs inline on the accept path and must not block
	// indefinitely.
	OnConnect(id ConnID)

	// OnDisconnect is fired exactly once when a connection ends, for any
	// reason: EOF, reset, protocol close, or forced shutdown.
	OnDisconnect(id ConnID)

	// OnInput is fired once per non-empty inbound line or message, in
	// receipt order.
	OnInput(id ConnID, text string)

	// GetOutput blocks until the next outbound text for id is available.
	// The server cancels ctx when the connection is torn down; a non-nil
	// error ends the connection's writer.
	GetOutput(ctx context.Context, id ConnID) (string, error)
}
