// Package shard implements the optional symbol-sharded ingestion mode
// (§5a): N worker queues, each owning a disjoint partition of
// symbol_index values, draining sequentially so per-symbol feed order
// is preserved while different symbols apply concurrently.
package shard

import (
	"context"
	"sync/atomic"

	"github.com/yanun0323/errors"

	"pillarbook/internal/message"
)

// ErrQueueFull is returned by TryPublish when a shard's queue has no
// room; the message is dropped rather than blocking the dispatcher.
var ErrQueueFull = errors.New("shard: queue full")

// ErrQueueClosed is returned by TryPublish after Close.
var ErrQueueClosed = errors.New("shard: queue closed")

// Task is one decoded message record routed to the shard owning its
// symbol_index. The dispatcher extracts and frames each captured frame
// itself, then routes every record it finds by symbol_index rather
// than routing whole frames, so messages for different symbols in the
// same feed packet can land on different shards.
type Task struct {
	SymbolIndex uint32
	Tag         message.Tag
	Body        []byte
}

// Queue is one shard's bounded, non-blocking mailbox.
type Queue struct {
	ch     chan Task
	closed uint32
	drops  uint64
}

// NewQueue returns a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{ch: make(chan Task, capacity)}
}

// TryPublish enqueues t without blocking. A full or closed queue drops
// the task and returns an error instead of stalling the dispatcher.
func (q *Queue) TryPublish(t Task) error {
	if atomic.LoadUint32(&q.closed) == 1 {
		atomic.AddUint64(&q.drops, 1)
		return ErrQueueClosed
	}
	select {
	case q.ch <- t:
		return nil
	default:
		atomic.AddUint64(&q.drops, 1)
		return ErrQueueFull
	}
}

// Close stops the queue from accepting further publishes. Safe to call
// more than once.
func (q *Queue) Close() {
	if atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		close(q.ch)
	}
}

// Drops reports how many tasks this queue has dropped.
func (q *Queue) Drops() uint64 { return atomic.LoadUint64(&q.drops) }

// Run drains the queue sequentially until ctx is cancelled or the
// queue is closed and empty, invoking handler for each task in arrival
// order.
func (q *Queue) Run(ctx context.Context, handler func(Task)) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-q.ch:
			if !ok {
				return
			}
			handler(t)
		}
	}
}

// Router owns N shards partitioned by symbol_index % N and a broadcast
// path for symbol-metadata updates, which every shard must see without
// a shared lock on the hot path.
type Router struct {
	shards []*Queue
}

// NewRouter returns a Router with n shards, each with the given
// per-shard queue capacity.
func NewRouter(n, capacity int) *Router {
	shards := make([]*Queue, n)
	for i := range shards {
		shards[i] = NewQueue(capacity)
	}
	return &Router{shards: shards}
}

// Shard returns the queue owning symbolIndex.
func (r *Router) Shard(symbolIndex uint32) *Queue {
	return r.shards[int(symbolIndex)%len(r.shards)]
}

// Shards returns every shard, for broadcasting symbol-metadata updates
// or for closing them all on shutdown.
func (r *Router) Shards() []*Queue {
	return r.shards
}

// Broadcast publishes t to every shard, used for Symbol Index Mapping
// (and other channel-wide) records so each shard's local view stays
// consistent without a shared lock on the hot path.
func (r *Router) Broadcast(t Task) {
	for _, s := range r.shards {
		s.TryPublish(t)
	}
}
