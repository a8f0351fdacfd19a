package frontend

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DerekShute/muddle/internal/config"
)

// Server owns the configured listeners and runs them until shutdown. At
// least one of the TCP and WebSocket ports must be configured; when both
// are, they must differ. Binding happens eagerly in Start so that port
// conflicts surface immediately rather than on first accept.
type Server struct {
	cfg      config.ServerConfig
	bridge   GameBridge
	logger   *zap.Logger
	registry *Registry

	quit   chan struct{}
	connWG sync.WaitGroup

	mu          sync.Mutex
	started     bool
	running     bool
	stopped     bool
	tcpListener net.Listener
	wsListener  net.Listener
	httpServer  *http.Server
}

// NewServer creates a connection server bridging both transports to the
// given game layer.
//
// Precondition: bridge and logger must be non-nil.
// Postcondition: Returns a Server ready to be started with Start.
func NewServer(cfg config.ServerConfig, bridge GameBridge, logger *zap.Logger) *Server {
	return &Server{
		cfg:      cfg,
		bridge:   bridge,
		logger:   logger,
		registry: NewRegistry(),
		quit:     make(chan struct{}),
	}
}

// Registry exposes the connection registry, primarily for tests and for
// operational introspection.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Start validates the listener configuration and binds every configured
// listener. On any failure no listener is left bound.
//
// Postcondition: Either all configured listeners are bound, or the server
// holds no resources and the returned error is ErrNoListeners,
// ErrPortConflict, ErrAlreadyRunning, or a *BindError naming the offending
// transport.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyRunning
	}

	if s.cfg.TCPPort == 0 && s.cfg.WSPort == 0 {
		return ErrNoListeners
	}
	if s.cfg.TCPPort != 0 && s.cfg.TCPPort == s.cfg.WSPort {
		return ErrPortConflict
	}

	if s.cfg.TCPPort != 0 {
		addr := s.cfg.TCPAddr()
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return &BindError{Transport: TransportTCP, Addr: addr, Err: err}
		}
		s.tcpListener = ln
		s.logger.Info("tcp listener bound",
			zap.String("addr", ln.Addr().String()),
		)
	}

	if s.cfg.WSPort != 0 {
		addr := s.cfg.WSAddr()
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			// A half-started server must not keep serving on the
			// other transport.
			if s.tcpListener != nil {
				_ = s.tcpListener.Close()
				s.tcpListener = nil
			}
			return &BindError{Transport: TransportWS, Addr: addr, Err: err}
		}
		s.wsListener = ln
		s.httpServer = &http.Server{Handler: s.wsHandler()}
		s.logger.Info("websocket listener bound",
			zap.String("addr", ln.Addr().String()),
		)
	}

	s.started = true
	return nil
}

// Run accepts connections on every bound listener concurrently and blocks
// until Shutdown is invoked. Acceptance never blocks on an individual
// connection; each accepted connection runs its pipeline on its own
// goroutines.
//
// Precondition: Start must have succeeded.
// Postcondition: Returns nil after Shutdown, ErrAlreadyRunning if Run is
// already in progress, ErrShutdown if the server was already stopped, or
// ErrNotStarted.
func (s *Server) Run() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	if s.stopped {
		s.mu.Unlock()
		return ErrShutdown
	}
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	tcpListener := s.tcpListener
	httpServer := s.httpServer
	wsListener := s.wsListener
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	start := time.Now()
	var group errgroup.Group

	if tcpListener != nil {
		group.Go(func() error {
			return s.acceptTCP(tcpListener)
		})
	}
	if httpServer != nil {
		group.Go(func() error {
			if err := httpServer.Serve(wsListener); err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}

	s.logger.Info("server accepting connections",
		zap.Bool("tcp", tcpListener != nil),
		zap.Bool("websocket", wsListener != nil),
	)

	err := group.Wait()
	s.logger.Info("server stopped accepting",
		zap.Duration("uptime", time.Since(start)),
	)
	return err
}

// acceptTCP accepts raw TCP connections until the listener closes.
func (s *Server) acceptTCP(ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return nil
			default:
				s.logger.Error("accepting tcp connection", zap.Error(err))
				continue
			}
		}

		if !s.track() {
			// Shutdown won the race with this accept.
			_ = conn.Close()
			return nil
		}
		go func() {
			defer s.connWG.Done()
			s.handleTCP(conn)
		}()
	}
}

// track adds the calling pipeline to the connection wait group, unless
// shutdown has begun. Holding the server mutex for the Add means Shutdown's
// Wait can never start concurrently with it.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.connWG.Add(1)
	return true
}

// IsRunning reports whether Run is currently accepting connections.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// TCPAddr returns the bound TCP listen address, or "" when TCP is disabled
// or the server has not started.
func (s *Server) TCPAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tcpListener == nil {
		return ""
	}
	return s.tcpListener.Addr().String()
}

// WSAddr returns the bound WebSocket listen address, or "" when WebSocket
// is disabled or the server has not started.
func (s *Server) WSAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wsListener == nil {
		return ""
	}
	return s.wsListener.Addr().String()
}

// Shutdown stops accepting new connections on all listeners and force-closes
// every live connection's transport, then waits for the per-connection
// pipelines to finish their disconnect handling. Calling Shutdown on an
// already-stopped server is a no-op.
//
// Postcondition: All listeners are closed and every live connection has
// received its OnDisconnect.
func (s *Server) Shutdown() {
	s.mu.Lock()
	if s.stopped || !s.started {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	tcpListener := s.tcpListener
	httpServer := s.httpServer
	s.mu.Unlock()

	start := time.Now()
	close(s.quit)

	if tcpListener != nil {
		_ = tcpListener.Close()
	}
	if httpServer != nil {
		// Close stops the listener; hijacked WebSocket connections are
		// torn down through the registry below.
		_ = httpServer.Close()
	}

	live := s.registry.Len()
	s.registry.CloseAll()
	s.connWG.Wait()

	s.logger.Info("server shut down",
		zap.Int("connections_closed", live),
		zap.Duration("elapsed", time.Since(start)),
	)
}
