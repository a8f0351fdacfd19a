package frontend

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
)

// testBridge is a GameBridge that records every callback and feeds writer
// output from per-connection channels.
type testBridge struct {
	mu          sync.Mutex
	connects    []ConnID
	disconnects []ConnID
	inputs      map[ConnID][]string
	outputs     map[ConnID]chan string
}

func newTestBridge() *testBridge {
	return &testBridge{
		inputs:  make(map[ConnID][]string),
		outputs: make(map[ConnID]chan string),
	}
}

func (b *testBridge) OnConnect(id ConnID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connects = append(b.connects, id)
	b.outputs[id] = make(chan string, 64)
}

func (b *testBridge) OnDisconnect(id ConnID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnects = append(b.disconnects, id)
}

func (b *testBridge) OnInput(id ConnID, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inputs[id] = append(b.inputs[id], text)
}

func (b *testBridge) GetOutput(ctx context.Context, id ConnID) (string, error) {
	b.mu.Lock()
	ch, ok := b.outputs[id]
	b.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("no output channel for %d", id)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case msg := <-ch:
		return msg, nil
	}
}

// send enqueues outbound text for the given connection's writer.
func (b *testBridge) send(id ConnID, msg string) {
	b.mu.Lock()
	ch := b.outputs[id]
	b.mu.Unlock()
	ch <- msg
}

func (b *testBridge) connectCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.connects)
}

func (b *testBridge) connectedIDs() []ConnID {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ConnID, len(b.connects))
	copy(out, b.connects)
	return out
}

func (b *testBridge) disconnectCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.disconnects)
}

func (b *testBridge) disconnectsFor(id ConnID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, d := range b.disconnects {
		if d == id {
			n++
		}
	}
	return n
}

func (b *testBridge) inputsFor(id ConnID) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.inputs[id]))
	copy(out, b.inputs[id])
	return out
}

// freePort asks the kernel for an ephemeral port and releases it. The tiny
// window before the server rebinds it is tolerable in tests.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("finding free port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}
