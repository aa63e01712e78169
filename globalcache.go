package glubsite

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lemmi/glubsite/backend"
	"github.com/lemmi/glubsite/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// Global is the content shared by every page. A nil field means the
// document does not exist in the content source.
type Global struct {
	Navigation *Navigation
	Footer     *Footer
}

// CacheState is the lifecycle state of a GlobalCache.
type CacheState int

const (
	CacheEmpty CacheState = iota
	CachePending
	CachePopulated
)

func (s CacheState) String() string {
	switch s {
	case CacheEmpty:
		return "empty"
	case CachePending:
		return "pending"
	case CachePopulated:
		return "populated"
	}
	return "unknown"
}

type flight struct {
	done chan struct{}
	val  Global
	err  error
}

// GlobalCache memoizes the global content for the lifetime of the process.
// Concurrent callers share a single fetch. Failures are not cached.
type GlobalCache struct {
	src     backend.Source
	timeout time.Duration

	mu     sync.Mutex
	value  *Global
	flight *flight
}

// CacheOption configures a GlobalCache.
type CacheOption func(*GlobalCache)

// WithFetchTimeout bounds a single fetch. Zero means no bound.
func WithFetchTimeout(d time.Duration) CacheOption {
	return func(c *GlobalCache) {
		c.timeout = d
	}
}

func NewGlobalCache(src backend.Source, opts ...CacheOption) *GlobalCache {
	c := &GlobalCache{src: src}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports the current lifecycle state.
func (c *GlobalCache) State() CacheState {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.value != nil:
		return CachePopulated
	case c.flight != nil:
		return CachePending
	}
	return CacheEmpty
}

// Get returns the global content, fetching it if necessary. token is used
// only by the fetch that populates the cache.
func (c *GlobalCache) Get(ctx context.Context, token string) (Global, error) {
	c.mu.Lock()
	if c.value != nil {
		v := *c.value
		c.mu.Unlock()
		return v, nil
	}
	f := c.flight
	if f == nil {
		f = &flight{done: make(chan struct{})}
		c.flight = f
		// the fetch outlives any single caller
		go c.run(context.WithoutCancel(ctx), f, token)
	}
	c.mu.Unlock()

	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return Global{}, ctx.Err()
	}
}

// Reset drops the cached value. A fetch still in flight completes for its
// waiters but does not populate the cache.
func (c *GlobalCache) Reset() {
	c.mu.Lock()
	c.value = nil
	c.flight = nil
	c.mu.Unlock()
}

func (c *GlobalCache) run(ctx context.Context, f *flight, token string) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	f.val, f.err = c.fetch(ctx, backend.WithToken(token))

	c.mu.Lock()
	if c.flight == f {
		c.flight = nil
		if f.err == nil {
			v := f.val
			c.value = &v
		}
	}
	c.mu.Unlock()
	close(f.done)

	if f.err != nil {
		ctxlog.FromContext(ctx).Error("global content fetch failed", slog.Any("error", f.err))
	}
}

// Fetch reads the global content with opts, bypassing the cache. Preview
// requests use it so drafts never reach the shared value.
func (c *GlobalCache) Fetch(ctx context.Context, opts ...backend.Option) (Global, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.fetch(ctx, opts...)
}

func (c *GlobalCache) fetch(ctx context.Context, opts ...backend.Option) (Global, error) {
	var (
		g        Global
		nav, ftr backend.Document
	)

	eg, ectx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		if nav, err = c.src.FetchNavigation(ectx, opts...); err != nil {
			return &GlobalContentFetchError{Document: "navigation", Err: err}
		}
		return nil
	})
	eg.Go(func() (err error) {
		if ftr, err = c.src.FetchFooter(ectx, opts...); err != nil {
			return &GlobalContentFetchError{Document: "footer", Err: err}
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return Global{}, err
	}

	if nav != nil {
		g.Navigation = NewNavigation(Props(nav))
	}
	if ftr != nil {
		g.Footer = NewFooter(Props(ftr))
	}
	return g, nil
}
