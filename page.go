package glubsite

import (
	"context"
	"log/slog"

	"github.com/lemmi/glubsite/backend"
	"github.com/lemmi/glubsite/i18n"
	"github.com/lemmi/glubsite/internal/ctxlog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Page is an assembled page: its body plus the shared frame.
type Page struct {
	Title    string
	Slug     string
	Locale   string
	Sections []Element
	Global

	Preview bool
	Locales []i18n.Locale
}

// Site assembles pages from a content source.
type Site struct {
	Source  backend.Source
	Builder *Builder
	Globals *GlobalCache
	Locales *i18n.Resolver
}

// NewSite wires a Site with the default builder and a fresh cache.
func NewSite(src backend.Source, locales *i18n.Resolver, opts ...CacheOption) *Site {
	return &Site{
		Source:  src,
		Builder: DefaultBuilder(),
		Globals: NewGlobalCache(src, opts...),
		Locales: locales,
	}
}

// Request names the page to assemble.
type Request struct {
	Path   string
	Locale string
	// Preview shows draft content. A non-empty Token implies it.
	Preview bool
	Token   string
}

func (r Request) preview() bool {
	return r.Preview || r.Token != ""
}

func (r Request) options() []backend.Option {
	var opts []backend.Option
	if r.Token != "" {
		opts = append(opts, backend.WithToken(r.Token))
	}
	if r.Preview {
		opts = append(opts, backend.WithPreview())
	}
	return opts
}

// Assemble fetches the page and the global content concurrently and builds
// the page body. A missing page yields *PageNotFoundError, a failed global
// fetch *GlobalContentFetchError. The latter takes precedence.
func (s *Site) Assemble(ctx context.Context, req Request) (*Page, error) {
	var (
		raw     *backend.Page
		global  Global
		pageErr error
		globErr error
	)

	var eg errgroup.Group
	eg.Go(func() error {
		raw, pageErr = s.Source.FetchPage(ctx, req.Path, req.Locale, req.options()...)
		return nil
	})
	eg.Go(func() error {
		global, globErr = s.globals(ctx, req)
		return nil
	})
	_ = eg.Wait()

	if globErr != nil {
		return nil, globErr
	}
	if pageErr != nil {
		if errors.Cause(pageErr) == backend.ErrNotFound {
			return nil, &PageNotFoundError{Path: backend.CleanSlug(req.Path), Locale: req.Locale}
		}
		return nil, errors.Wrapf(pageErr, "fetching page %q", req.Path)
	}

	log := ctxlog.FromContext(ctx).With(slog.String("page", raw.Slug), slog.String("locale", req.Locale))
	p := &Page{
		Title:    raw.Title,
		Slug:     raw.Slug,
		Locale:   req.Locale,
		Sections: s.Builder.BuildMany(ctxlog.WithLogger(ctx, log), raw.Sections),
		Global:   global,
		Preview:  req.preview(),
	}
	if s.Locales != nil {
		p.Locales = s.Locales.Locales()
	}
	log.Debug("assembled page", slog.Int("sections", len(p.Sections)), slog.Int("authored", len(raw.Sections)))
	return p, nil
}

// globals serves public requests from the shared cache. Preview requests
// fetch their own copy with the request's token.
func (s *Site) globals(ctx context.Context, req Request) (Global, error) {
	if req.preview() {
		return s.Globals.Fetch(ctx, req.options()...)
	}
	return s.Globals.Get(ctx, "")
}

// Frame returns a page carrying only the global content, used to render
// error and placeholder pages inside the site frame.
func (s *Site) Frame(ctx context.Context, req Request) *Page {
	p := &Page{
		Slug:    backend.CleanSlug(req.Path),
		Locale:  req.Locale,
		Preview: req.preview(),
	}
	if g, err := s.globals(ctx, req); err == nil {
		p.Global = g
	}
	if s.Locales != nil {
		p.Locales = s.Locales.Locales()
	}
	return p
}
