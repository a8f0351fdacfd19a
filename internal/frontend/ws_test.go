package frontend

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/DerekShute/muddle/internal/config"
)

func wsOnlyConfig(t *testing.T) config.ServerConfig {
	return config.ServerConfig{
		Host:         "127.0.0.1",
		WSPort:       freePort(t),
		WriteTimeout: 5 * time.Second,
	}
}

func dialWS(t *testing.T, addr string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws://"+addr, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.CloseNow()
	})
	return conn
}

func TestWSInputForwarding(t *testing.T) {
	bridge := newTestBridge()
	srv := startServer(t, wsOnlyConfig(t), bridge)

	conn := dialWS(t, srv.WSAddr())

	require.Eventually(t, func() bool {
		return bridge.connectCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
	id := bridge.connectedIDs()[0]

	ctx := context.Background()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("hello world")))
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("   ")))
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("  second  ")))

	require.Eventually(t, func() bool {
		return len(bridge.inputsFor(id)) == 2
	}, 2*time.Second, 10*time.Millisecond)

	// Messages are trimmed, empties dropped, order preserved.
	assert.Equal(t, []string{"hello world", "second"}, bridge.inputsFor(id))
}

func TestWSOutputFramesAndTerminator(t *testing.T) {
	bridge := newTestBridge()
	srv := startServer(t, wsOnlyConfig(t), bridge)

	conn := dialWS(t, srv.WSAddr())

	require.Eventually(t, func() bool {
		return bridge.connectCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
	id := bridge.connectedIDs()[0]

	bridge.send(id, "one")
	bridge.send(id, "two")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	typ, data, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, typ)
	assert.Equal(t, "one\n\r", string(data))

	_, data, err = conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two\n\r", string(data))
}

func TestWSClientDisconnect(t *testing.T) {
	bridge := newTestBridge()
	srv := startServer(t, wsOnlyConfig(t), bridge)

	conn := dialWS(t, srv.WSAddr())

	require.Eventually(t, func() bool {
		return bridge.connectCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
	id := bridge.connectedIDs()[0]

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))

	// A protocol close is the normal disconnect signal, fired exactly once.
	require.Eventually(t, func() bool {
		return bridge.disconnectsFor(id) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, srv.Registry().Len())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, bridge.disconnectsFor(id))
}

func TestWSShutdownClosesConnections(t *testing.T) {
	bridge := newTestBridge()
	srv := startServer(t, wsOnlyConfig(t), bridge)

	conn := dialWS(t, srv.WSAddr())

	require.Eventually(t, func() bool {
		return bridge.connectCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	srv.Shutdown()
	assert.Equal(t, 1, bridge.disconnectCount())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _, err := conn.Read(ctx)
	assert.Error(t, err)
}

func TestIdentitiesSharedAcrossTransports(t *testing.T) {
	bridge := newTestBridge()
	tcpPort := freePort(t)
	wsPort := freePort(t)
	for wsPort == tcpPort {
		wsPort = freePort(t)
	}
	cfg := config.ServerConfig{
		Host:         "127.0.0.1",
		TCPPort:      tcpPort,
		WSPort:       wsPort,
		WriteTimeout: 5 * time.Second,
	}
	srv := startServer(t, cfg, bridge)

	tcpConn, err := net.DialTimeout("tcp", srv.TCPAddr(), 2*time.Second)
	require.NoError(t, err)
	defer tcpConn.Close()

	dialWS(t, srv.WSAddr())

	require.Eventually(t, func() bool {
		return bridge.connectCount() == 2
	}, 2*time.Second, 10*time.Millisecond)

	ids := bridge.connectedIDs()
	assert.NotEqual(t, ids[0], ids[1], "transports must share one id space")
}
