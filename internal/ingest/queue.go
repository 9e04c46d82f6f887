// Package ingest carries aggregated fragments from producers to the UI loop.
package ingest

import (
	"context"
	"errors"
	"sync"

	"github.com/Oloruntobi1/flametop/internal/flamegraph"
)

// ErrClosed is returned by Next once the queue is closed and drained.
var ErrClosed = errors.New("ingest queue closed")

// Source names for events.
const (
	SourceOTLP  = "otlp"
	SourcePprof = "pprof"
)

// Event is one fragment built from a single export request or profile.
type Event struct {
	Fragment *flamegraph.Tree
	Samples  uint64
	Source   string
}

// Queue is an unbounded multi-producer, single-consumer FIFO.
// Push never blocks; memory grows if the consumer stalls.
type Queue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	notify chan struct{}
}

// NewQueue returns an empty open queue.
func NewQueue() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Push enqueues ev. It reports false when the queue is already closed.
func (q *Queue) Push(ev Event) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.events = append(q.events, ev)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Next blocks until an event is available. Events pushed before Close are
// still delivered; after that Next returns ErrClosed.
func (q *Queue) Next(ctx context.Context) (Event, error) {
	for {
		q.mu.Lock()
		if len(q.events) > 0 {
			ev := q.events[0]
			q.events[0] = Event{}
			q.events = q.events[1:]
			q.mu.Unlock()
			return ev, nil
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return Event{}, ErrClosed
		}

		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-q.notify:
		}
	}
}

// Len is the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close stops accepting events and wakes a blocked consumer.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}
