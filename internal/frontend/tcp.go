package frontend

import (
	"bufio"
	"context"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
)

// handleTCP runs the pipeline for one accepted raw TCP connection: mint an
// id, register, fire OnConnect, then race the reader and writer to first
// completion. A broken connection can surface the failure on only one side,
// so whichever loop finishes first decides the disconnect; the transport is
// then force-closed to unblock the other loop.
func (s *Server) handleTCP(raw net.Conn) {
	start := time.Now()
	id := s.registry.NextID()
	rec, ok := s.registry.Register(id, TransportTCP, raw.RemoteAddr().String(), raw)
	if !ok {
		// Shutdown closed the registry between accept and here; the
		// registry already closed the socket.
		s.logger.Info("connection refused, server shutting down",
			zap.Uint64("conn_id", uint64(id)),
		)
		return
	}

	logger := s.logger.With(
		zap.Uint64("conn_id", uint64(id)),
		zap.String("transport", string(TransportTCP)),
		zap.String("remote_addr", rec.RemoteAddr),
		zap.String("conn_token", rec.Token.String()),
	)
	logger.Info("client connected")

	s.bridge.OnConnect(id)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, 2)

	go func() {
		s.tcpReader(id, raw)
		done <- struct{}{}
	}()
	go func() {
		s.tcpWriter(ctx, id, raw)
		done <- struct{}{}
	}()

	// First completion decides; cancel and force-close to reel in the loser.
	<-done
	cancel()
	_ = raw.Close()
	<-done

	s.registry.Unregister(id)
	s.bridge.OnDisconnect(id)

	logger.Info("client disconnected",
		zap.Duration("duration", time.Since(start)),
	)
}

// tcpReader forwards newline-delimited input lines to the game layer until
// end-of-stream. Lines are decoded from latin-1 and trimmed; empty lines
// are dropped rather than forwarded.
func (s *Server) tcpReader(id ConnID, raw net.Conn) {
	reader := bufio.NewReader(raw)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			text := strings.TrimSpace(decodeWire(line))
			if text != "" {
				s.bridge.OnInput(id, text)
			}
		}
		if err != nil {
			return
		}
	}
}

// tcpWriter drains the game layer's outbound queue for id onto the wire,
// one terminated latin-1 line per message. Any write failure is the normal
// disconnect signal, not an error to escalate.
func (s *Server) tcpWriter(ctx context.Context, id ConnID, raw net.Conn) {
	for {
		msg, err := s.bridge.GetOutput(ctx, id)
		if err != nil {
			return
		}

		if s.cfg.WriteTimeout > 0 {
			_ = raw.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		}
		if _, err := raw.Write(encodeWire(msg + wireTerminator)); err != nil {
			return
		}
	}
}
