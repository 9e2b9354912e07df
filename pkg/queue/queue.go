package queue

import (
	"sync"

	"github.com/typhonjs/socklog-go/pkg/wire"
)

// Queue is a FIFO buffer of pending collector messages.
//
// Enqueue, Flush and Clear are expected to run on a single logical actor;
// the mutex exists so Len can be observed from other goroutines.
type Queue struct {
	mu      sync.Mutex
	pending []wire.Message
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{}
}

// Enqueue appends a message to the tail. It never fails; unbounded growth
// while disconnected is an accepted tradeoff.
func (q *Queue) Enqueue(msg wire.Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, msg)
}

// Flush releases messages from the head in order. For each message the
// transmit predicate decides whether it can go out now: true removes the
// message and ownership transfers to the sender; false stops iteration
// immediately, leaving it and everything behind it queued in original order.
func (q *Queue) Flush(canSend func(wire.Message) bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pending) > 0 {
		if !canSend(q.pending[0]) {
			return
		}
		q.pending[0] = wire.Message{}
		q.pending = q.pending[1:]
	}

	// Empty: drop the backing array so a long outage doesn't pin memory.
	q.pending = nil
}

// Clear discards all buffered messages unconditionally.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
}

// Len returns the number of buffered messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
