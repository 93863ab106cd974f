package keylock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_MutualExclusion(t *testing.T) {
	l := NewLocal()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "7:2025-03-10", 5*time.Second)
			if !assert.NoError(t, err) {
				return
			}

			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxInside)
				if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, l.Len())
}

func TestLocal_Timeout(t *testing.T) {
	l := NewLocal()

	release, err := l.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)
	defer release()

	_, err = l.Acquire(context.Background(), "k", 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestLocal_DifferentKeysIndependent(t *testing.T) {
	l := NewLocal()

	release, err := l.Acquire(context.Background(), "a", time.Second)
	require.NoError(t, err)
	defer release()

	other, err := l.Acquire(context.Background(), "b", 20*time.Millisecond)
	require.NoError(t, err)
	other()
}

func TestLocal_ContextCancelled(t *testing.T) {
	l := NewLocal()

	release, err := l.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = l.Acquire(ctx, "k", time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocal_ReleaseIdempotent(t *testing.T) {
	l := NewLocal()

	release, err := l.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)
	release()
	release()

	again, err := l.Acquire(context.Background(), "k", 20*time.Millisecond)
	require.NoError(t, err)
	again()
	assert.Equal(t, 0, l.Len())
}
