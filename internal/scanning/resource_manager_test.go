package scanning

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedResourceManager_Acquire(t *testing.T) {
	t.Run("successful acquisition", func(t *testing.T) {
		rm := NewFixedResourceManager(5)
		require.NoError(t, rm.Acquire(context.Background(), "10.0.0.1"))
		assert.Equal(t, 1, rm.ActiveCount())
		rm.Release("10.0.0.1")
		assert.Equal(t, 0, rm.ActiveCount())
	})

	t.Run("exhaustion blocks until deadline", func(t *testing.T) {
		rm := NewFixedResourceManager(2)
		require.NoError(t, rm.Acquire(context.Background(), "a"))
		require.NoError(t, rm.Acquire(context.Background(), "b"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, rm.Acquire(ctx, "c"), context.DeadlineExceeded)
	})

	t.Run("release unblocks waiter", func(t *testing.T) {
		rm := NewFixedResourceManager(1)
		require.NoError(t, rm.Acquire(context.Background(), "a"))

		done := make(chan error, 1)
		go func() { done <- rm.Acquire(context.Background(), "b") }()

		time.Sleep(20 * time.Millisecond)
		rm.Release("a")

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("waiter was not released")
		}
	})

	t.Run("closed manager rejects", func(t *testing.T) {
		rm := NewFixedResourceManager(1)
		require.NoError(t, rm.Close())
		assert.ErrorIs(t, rm.Acquire(context.Background(), "a"), errResourceManagerClosed)
		assert.NoError(t, rm.Close())
	})
}

func TestFixedResourceManager_ReleaseUnknownIsNoop(t *testing.T) {
	rm := NewFixedResourceManager(1)
	require.NoError(t, rm.Acquire(context.Background(), "a"))
	rm.Release("unknown")
	assert.Equal(t, 1, rm.ActiveCount())
}

func TestFixedResourceManager_Concurrency(t *testing.T) {
	const capacity = 3
	rm := NewFixedResourceManager(capacity)

	var (
		wg      sync.WaitGroup
		current atomic.Int32
		peak    atomic.Int32
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			require.NoError(t, rm.Acquire(context.Background(), id))
			defer rm.Release(id)

			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			current.Add(-1)
		}(fmt.Sprintf("10.0.0.%d", i))
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(capacity))
	assert.Equal(t, 0, rm.ActiveCount())
}

func TestNewFixedResourceManager_MinimumCapacity(t *testing.T) {
	rm := NewFixedResourceManager(0)
	require.NoError(t, rm.Acquire(context.Background(), "a"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, rm.Acquire(ctx, "b"), context.DeadlineExceeded)
}
