package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// blockingService runs until stopped and records its stop order.
type blockingService struct {
	name    string
	order   *stopOrder
	stopCh  chan struct{}
	stopped atomic.Bool
}

type stopOrder struct {
	mu    sync.Mutex
	names []string
}

func (o *stopOrder) record(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.names = append(o.names, name)
}

func (o *stopOrder) list() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.names...)
}

func newBlockingService(name string, order *stopOrder) *blockingService {
	return &blockingService{name: name, order: order, stopCh: make(chan struct{})}
}

func (s *blockingService) Start() error {
	<-s.stopCh
	return nil
}

func (s *blockingService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		s.order.record(s.name)
		close(s.stopCh)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	order := &stopOrder{}
	lc := NewLifecycle(zaptest.NewLogger(t))
	lc.Add("one", newBlockingService("one", order))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("lifecycle did not shut down after context cancel")
	}
	assert.Equal(t, []string{"one"}, order.list())
}

func TestRunStopsServicesInReverseOrder(t *testing.T) {
	order := &stopOrder{}
	lc := NewLifecycle(zaptest.NewLogger(t))
	lc.Add("first", newBlockingService("first", order))
	lc.Add("second", newBlockingService("second", order))
	lc.Add("third", newBlockingService("third", order))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- lc.Run(ctx) }()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lifecycle did not shut down")
	}
	assert.Equal(t, []string{"third", "second", "first"}, order.list())
}

func TestRunReturnsServiceError(t *testing.T) {
	boom := errors.New("boom")
	order := &stopOrder{}

	lc := NewLifecycle(zaptest.NewLogger(t))
	lc.Add("failing", &FuncService{
		StartFn: func() error { return boom },
		StopFn:  func() {},
	})
	lc.Add("healthy", newBlockingService("healthy", order))

	done := make(chan error, 1)
	go func() { done <- lc.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failing")
	case <-time.After(2 * time.Second):
		t.Fatal("lifecycle did not shut down after service failure")
	}
	assert.Equal(t, []string{"healthy"}, order.list())
}

func TestFuncService(t *testing.T) {
	var started, stopped bool
	svc := &FuncService{
		StartFn: func() error { started = true; return nil },
		StopFn:  func() { stopped = true },
	}
	require.NoError(t, svc.Start())
	svc.Stop()
	assert.True(t, started)
	assert.True(t, stopped)
}
