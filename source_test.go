package glubsite

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lemmi/glubsite/backend"
	"github.com/pkg/errors"
)

// fakeSource is an in-memory backend.Source. If gate is set, global
// fetches block until it is closed.
type fakeSource struct {
	pages map[string]*backend.Page // by locale + slug

	mu        sync.Mutex
	nav       backend.Document
	draftNav  backend.Document
	footer    backend.Document
	navErr    error
	footerErr error

	gate chan struct{}

	navCalls    atomic.Int32
	footerCalls atomic.Int32
	pageCalls   atomic.Int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages: map[string]*backend.Page{},
		nav: backend.Document{"menu": []any{
			map[string]any{"label": "Students", "url": "/students", "_key": "m1"},
		}},
		footer: backend.Document{"copyright": "(c) Example"},
	}
}

func (s *fakeSource) addPage(locale string, p *backend.Page) {
	s.pages[locale+p.Slug] = p
}

func (s *fakeSource) wait(ctx context.Context) error {
	if s.gate == nil {
		return nil
	}
	select {
	case <-s.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *fakeSource) FetchPage(ctx context.Context, path, locale string, opts ...backend.Option) (*backend.Page, error) {
	s.pageCalls.Add(1)
	if p, ok := s.pages[locale+backend.CleanSlug(path)]; ok {
		return p, nil
	}
	return nil, errors.Wrapf(backend.ErrNotFound, "page %q", path)
}

func (s *fakeSource) FetchNavigation(ctx context.Context, opts ...backend.Option) (backend.Document, error) {
	s.navCalls.Add(1)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draftNav != nil && backend.IsPreview(opts...) {
		return s.draftNav, s.navErr
	}
	return s.nav, s.navErr
}

func (s *fakeSource) FetchFooter(ctx context.Context, opts ...backend.Option) (backend.Document, error) {
	s.footerCalls.Add(1)
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.footer, s.footerErr
}

func (s *fakeSource) FetchAllPagePaths(ctx context.Context) ([]backend.PagePath, error) {
	var out []backend.PagePath
	for _, p := range s.pages {
		out = append(out, backend.PagePath{Slug: p.Slug, Locale: p.Locale})
	}
	return out, nil
}

func (s *fakeSource) set(f func(s *fakeSource)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s)
}
