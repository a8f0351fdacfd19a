package frontend

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Transport names the kind of listener a connection arrived on.
type Transport string

// Supported transports.
const (
	TransportTCP Transport = "tcp"
	TransportWS  Transport = "websocket"
)

// Record tracks one live connection. It is created on accept and destroyed
// on disconnect; the owning pipeline holds it, the registry only keeps a
// lookup reference so shutdown can force-close the transport.
type Record struct {
	// ID is the connection identity, stable for the record's lifetime.
	ID ConnID
	// Transport is the listener kind the connection arrived on.
	Transport Transport
	// RemoteAddr is the peer address, for logging.
	RemoteAddr string
	// Token correlates this connection's log lines across goroutines.
	Token uuid.UUID

	closer io.Closer
}

// Close force-closes the record's transport. Safe to call more than once;
// the underlying closers tolerate repeated closes.
func (r *Record) Close() error {
	return r.closer.Close()
}

// Registry issues connection identities and tracks live connections of both
// transport kinds. All methods are safe for concurrent use from both
// listeners. Once CloseAll has run the registry is closed for good: late
// registrations are refused and their transports force-closed, so no
// connection can slip in behind a shutdown.
type Registry struct {
	nextID atomic.Uint64

	mu      sync.RWMutex
	closed  bool
	records map[ConnID]*Record
}

// NewRegistry creates an empty connection Registry.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[ConnID]*Record),
	}
}

// NextID returns a fresh, never-before-used connection identity.
//
// Postcondition: Every call returns a value strictly greater than all
// previous calls, under any interleaving of concurrent callers.
func (r *Registry) NextID() ConnID {
	return ConnID(r.nextID.Add(1))
}

// Register creates and stores a Record for a newly accepted connection.
//
// Precondition: id must come from NextID; closer must force-close the
// transport when called.
// Postcondition: Returns (record, true) with the record stored, or
// (nil, false) if CloseAll has already run, in which case the transport has
// been closed and the caller must not start a pipeline for it.
func (r *Registry) Register(id ConnID, transport Transport, remoteAddr string, closer io.Closer) (*Record, bool) {
	rec := &Record{
		ID:         id,
		Transport:  transport,
		RemoteAddr: remoteAddr,
		Token:      uuid.New(),
		closer:     closer,
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		_ = closer.Close()
		return nil, false
	}
	r.records[id] = rec
	r.mu.Unlock()

	return rec, true
}

// Unregister removes the Record for id. Removing an unknown id is a no-op.
func (r *Registry) Unregister(id ConnID) {
	r.mu.Lock()
	delete(r.records, id)
	r.mu.Unlock()
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Records returns a snapshot of all live connection records. Used during
// shutdown to iterate without holding the lock across Close calls.
func (r *Registry) Records() []*Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out
}

// CloseAll closes the registry and force-closes every live connection's
// transport. The pipelines notice the closed transports and run their normal
// disconnect path, so OnDisconnect still fires exactly once per connection.
// A connection whose accept raced CloseAll is refused by Register instead.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	r.closed = true
	recs := make([]*Record, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}
	r.mu.Unlock()

	for _, rec := range recs {
		_ = rec.Close()
	}
}
