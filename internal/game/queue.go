package game

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Pop once a closed queue has been drained.
var ErrQueueClosed = errors.New("message queue closed")

// MessageQueue is an unbounded FIFO of outbound text for one player.
// The game layer pushes from any goroutine; exactly one connection writer
// pops. Capacity is unbounded on purpose: backpressure is not this layer's
// concern, disconnecting slow clients is the transport's.
type MessageQueue struct {
	mu     sync.Mutex
	items  []string
	closed bool

	// wake carries at most one pending signal; the single consumer
	// re-checks the queue after every wakeup.
	wake chan struct{}
}

// NewMessageQueue creates an empty open queue.
func NewMessageQueue() *MessageQueue {
	return &MessageQueue{
		wake: make(chan struct{}, 1),
	}
}

// Push appends msg to the queue and wakes the consumer. Pushing to a
// closed queue is a no-op.
func (q *MessageQueue) Push(msg string) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, msg)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pop blocks until a message is available and returns it in push order.
// It returns ctx.Err() if ctx is cancelled first, or ErrQueueClosed once
// the queue is closed and empty.
func (q *MessageQueue) Pop(ctx context.Context) (string, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			msg := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return msg, nil
		}
		if q.closed {
			q.mu.Unlock()
			return "", ErrQueueClosed
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-q.wake:
		}
	}
}

// Close marks the queue closed and wakes the consumer so a blocked Pop can
// observe the close. Idempotent.
func (q *MessageQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Len returns the number of queued messages.
func (q *MessageQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
