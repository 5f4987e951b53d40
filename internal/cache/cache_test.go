package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_FetchesOnceWithinTTL(t *testing.T) {
	c := New(5 * time.Second)
	var calls atomic.Int32

	fetch := func(context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"a", "b"}, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Get(context.Background(), c, "messages", fetch)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, v)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_RefetchesWhenStale(t *testing.T) {
	c := New(time.Second)
	var calls atomic.Int32
	now := time.Now()
	c.now = func() time.Time { return now }

	fetch := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	v, err := Get(context.Background(), c, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Second)
	v, err = Get(context.Background(), c, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestInvalidate_ForcesRefetch(t *testing.T) {
	c := New(time.Minute)
	var calls atomic.Int32
	fetch := func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	_, err := Get(context.Background(), c, "k", fetch)
	require.NoError(t, err)
	c.Invalidate("k")

	v, err := Get(context.Background(), c, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestGet_KeepsStaleValueOnError(t *testing.T) {
	c := New(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := Get(context.Background(), c, "k", func(context.Context) (string, error) {
		return "cached", nil
	})
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	v, err := Get(context.Background(), c, "k", func(context.Context) (string, error) {
		return "", errors.New("backend down")
	})
	require.Error(t, err)
	assert.Equal(t, "cached", v, "stale value must survive a failed refresh")

	// The failure must not have evicted the entry.
	prev, ok := c.Peek("k")
	require.True(t, ok)
	assert.Equal(t, "cached", prev)
}

func TestGet_DeduplicatesConcurrentFetches(t *testing.T) {
	c := New(time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	fetch := func(context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Get(context.Background(), c, "k", fetch)
			if err == nil {
				results[i] = v
			}
		}(i)
	}

	// Let every goroutine reach the fetch before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent fetches must collapse")
	for _, v := range results {
		assert.Equal(t, 7, v)
	}
}

func TestInvalidateDuringFlight_DiscardsResult(t *testing.T) {
	c := New(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_, _ = Get(context.Background(), c, "k", func(context.Context) (string, error) {
			close(started)
			<-release
			return "in-flight", nil
		})
	}()

	<-started
	c.Invalidate("k")
	close(release)

	// Give the store attempt time to run, then verify it was dropped.
	time.Sleep(100 * time.Millisecond)
	_, ok := c.Peek("k")
	assert.False(t, ok, "result fetched before invalidation must not be stored")
}
