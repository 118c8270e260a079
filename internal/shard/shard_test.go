package shard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryPublishAndRun(t *testing.T) {
	q := NewQueue(4)
	require.NoError(t, q.TryPublish(Task{SymbolIndex: 1, Body: []byte("a")}))

	ctx, cancel := context.WithCancel(context.Background())
	var got []Task
	done := make(chan struct{})
	go func() {
		q.Run(ctx, func(task Task) { got = append(got, task) })
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	<-done

	require.Len(t, got, 1)
	assert.Equal(t, "a", string(got[0].Body))
}

func TestTryPublishFullQueueDrops(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.TryPublish(Task{}))
	err := q.TryPublish(Task{})
	assert.True(t, errors.Is(err, ErrQueueFull))
	assert.EqualValues(t, 1, q.Drops())
}

func TestTryPublishAfterCloseRejected(t *testing.T) {
	q := NewQueue(1)
	q.Close()
	q.Close() // idempotent
	err := q.TryPublish(Task{})
	assert.True(t, errors.Is(err, ErrQueueClosed))
}

func TestRouterPartitionsBySymbolIndex(t *testing.T) {
	r := NewRouter(4, 2)
	assert.Same(t, r.Shard(0), r.Shard(4), "symbol indices 0 and 4 should land on the same shard mod 4")
	assert.NotSame(t, r.Shard(1), r.Shard(2), "symbol indices 1 and 2 should land on different shards")
}

func TestBroadcastReachesEveryShard(t *testing.T) {
	r := NewRouter(3, 2)
	r.Broadcast(Task{SymbolIndex: 99})
	for i, s := range r.Shards() {
		select {
		case task := <-s.ch:
			assert.EqualValuesf(t, 99, task.SymbolIndex, "shard %d", i)
		default:
			t.Fatalf("shard %d did not receive the broadcast", i)
		}
	}
}
