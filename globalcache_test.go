package glubsite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalCacheSingleFlight(t *testing.T) {
	src := newFakeSource()
	src.gate = make(chan struct{})
	c := NewGlobalCache(src)

	const K = 32
	var (
		wg      sync.WaitGroup
		results = make([]Global, K)
		errs    = make([]error, K)
	)
	for i := 0; i < K; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Get(context.Background(), "")
		}(i)
	}

	require.Eventually(t, func() bool { return c.State() == CachePending }, time.Second, time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.EqualValues(t, 1, src.navCalls.Load())
	assert.EqualValues(t, 1, src.footerCalls.Load())
	for i := 0; i < K; i++ {
		require.NoError(t, errs[i])
		assert.Same(t, results[0].Navigation, results[i].Navigation)
		assert.Same(t, results[0].Footer, results[i].Footer)
	}
	assert.Equal(t, CachePopulated, c.State())
	require.Len(t, results[0].Navigation.Menu, 1)
	assert.Equal(t, "Students", results[0].Navigation.Menu[0].Label)
	assert.Equal(t, "(c) Example", results[0].Footer.Copyright)
}

func TestGlobalCachePopulatedDoesNotFetch(t *testing.T) {
	src := newFakeSource()
	c := NewGlobalCache(src)
	ctx := context.Background()

	assert.Equal(t, CacheEmpty, c.State())
	first, err := c.Get(ctx, "")
	require.NoError(t, err)
	second, err := c.Get(ctx, "other-token")
	require.NoError(t, err)

	assert.Same(t, first.Navigation, second.Navigation)
	assert.EqualValues(t, 1, src.navCalls.Load())
}

func TestGlobalCacheReset(t *testing.T) {
	src := newFakeSource()
	c := NewGlobalCache(src)
	ctx := context.Background()

	_, err := c.Get(ctx, "")
	require.NoError(t, err)

	src.set(func(s *fakeSource) { s.footer["copyright"] = "(c) Changed" })
	c.Reset()
	assert.Equal(t, CacheEmpty, c.State())

	g, err := c.Get(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "(c) Changed", g.Footer.Copyright)
	assert.EqualValues(t, 2, src.navCalls.Load())
	assert.EqualValues(t, 2, src.footerCalls.Load())
}

func TestGlobalCacheErrorIsNotCached(t *testing.T) {
	src := newFakeSource()
	src.footerErr = errors.New("boom")
	c := NewGlobalCache(src)
	ctx := context.Background()

	_, err := c.Get(ctx, "")
	var fetchErr *GlobalContentFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "footer", fetchErr.Document)
	assert.Equal(t, "boom", errors.Cause(err).Error())
	assert.Equal(t, CacheEmpty, c.State())

	src.set(func(s *fakeSource) { s.footerErr = nil })
	g, err := c.Get(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, g.Footer)
	assert.Equal(t, CachePopulated, c.State())
}

func TestGlobalCacheAbsentDocuments(t *testing.T) {
	src := newFakeSource()
	src.nav = nil
	src.footer = nil
	g, err := NewGlobalCache(src).Get(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, g.Navigation)
	assert.Nil(t, g.Footer)
	assert.True(t, g.Footer.Empty())
}

func TestGlobalCacheResetDuringFetch(t *testing.T) {
	src := newFakeSource()
	src.gate = make(chan struct{})
	c := NewGlobalCache(src)

	done := make(chan error, 1)
	go func() {
		_, err := c.Get(context.Background(), "")
		done <- err
	}()
	require.Eventually(t, func() bool { return c.State() == CachePending }, time.Second, time.Millisecond)

	c.Reset()
	assert.Equal(t, CacheEmpty, c.State())
	close(src.gate)
	require.NoError(t, <-done)

	// the stale flight must not populate the cache
	assert.Equal(t, CacheEmpty, c.State())
}

func TestGlobalCacheWaiterCancellation(t *testing.T) {
	src := newFakeSource()
	src.gate = make(chan struct{})
	c := NewGlobalCache(src)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "")
		errc <- err
	}()
	require.Eventually(t, func() bool { return c.State() == CachePending }, time.Second, time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	// the flight keeps running for other callers
	close(src.gate)
	g, err := c.Get(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, g.Navigation)
	assert.EqualValues(t, 1, src.navCalls.Load())
}

func TestGlobalCacheFetchTimeout(t *testing.T) {
	src := newFakeSource()
	src.gate = make(chan struct{})
	defer close(src.gate)
	c := NewGlobalCache(src, WithFetchTimeout(10*time.Millisecond))

	_, err := c.Get(context.Background(), "")
	var fetchErr *GlobalContentFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, CacheEmpty, c.State())
}
