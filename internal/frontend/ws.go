package frontend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// wsCloser adapts a WebSocket connection to the registry's io.Closer,
// tearing the connection down without a close handshake so shutdown never
// waits on an unresponsive peer.
type wsCloser struct {
	conn *websocket.Conn
}

func (c wsCloser) Close() error {
	return c.conn.CloseNow()
}

// wsHandler returns the HTTP handler that upgrades requests into game
// connections. Every path upgrades; the WebSocket listener serves nothing
// else.
func (s *Server) wsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWS)
	return mux
}

// handleWS mirrors handleTCP for the framed transport: same id minting,
// registration, and first-completion race, with message framing taking the
// place of line delimiting.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.logger.Error("accepting websocket connection",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	if !s.track() {
		_ = conn.CloseNow()
		return
	}
	defer s.connWG.Done()

	start := time.Now()
	id := s.registry.NextID()
	rec, ok := s.registry.Register(id, TransportWS, r.RemoteAddr, wsCloser{conn})
	if !ok {
		s.logger.Info("connection refused, server shutting down",
			zap.Uint64("conn_id", uint64(id)),
		)
		return
	}

	logger := s.logger.With(
		zap.Uint64("conn_id", uint64(id)),
		zap.String("transport", string(TransportWS)),
		zap.String("remote_addr", rec.RemoteAddr),
		zap.String("conn_token", rec.Token.String()),
	)
	logger.Info("client connected", zap.String("path", r.URL.Path))

	s.bridge.OnConnect(id)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{}, 2)

	go func() {
		s.wsReader(ctx, id, conn)
		done <- struct{}{}
	}()
	go func() {
		s.wsWriter(ctx, id, conn)
		done <- struct{}{}
	}()

	<-done
	cancel()
	_ = conn.CloseNow()
	<-done

	s.registry.Unregister(id)
	s.bridge.OnDisconnect(id)

	logger.Info("client disconnected",
		zap.Duration("duration", time.Since(start)),
	)
}

// wsReader forwards incoming text messages to the game layer until the
// connection closes. A close status during read ends the loop normally; it
// is not an application error.
func (s *Server) wsReader(ctx context.Context, id ConnID, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		text := strings.TrimSpace(string(data))
		if text != "" {
			s.bridge.OnInput(id, text)
		}
	}
}

// wsWriter sends each outbound message as one text frame, with the same
// trailing terminator as the TCP pipeline for client-side parity.
func (s *Server) wsWriter(ctx context.Context, id ConnID, conn *websocket.Conn) {
	for {
		msg, err := s.bridge.GetOutput(ctx, id)
		if err != nil {
			return
		}

		wctx := ctx
		if s.cfg.WriteTimeout > 0 {
			var cancel context.CancelFunc
			wctx, cancel = context.WithTimeout(ctx, s.cfg.WriteTimeout)
			err = conn.Write(wctx, websocket.MessageText, []byte(msg+wireTerminator))
			cancel()
		} else {
			err = conn.Write(wctx, websocket.MessageText, []byte(msg+wireTerminator))
		}
		if err != nil {
			return
		}
	}
}
