package backend

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// Backend is a content root: page documents, global documents, static files.
type Backend interface {
	http.FileSystem
}

// Versioner is implemented by backends that can name the revision they serve,
// e.g. a git commit id. Used as ETag.
type Versioner interface {
	Version() string
}

// ErrNotFound is returned when no document matches.
var ErrNotFound = errors.New("document not found")

// Document is an untyped content record as delivered by the content source.
type Document map[string]any

// Page is a raw page record. Sections are left untyped.
type Page struct {
	Title    string
	Slug     string
	Locale   string
	Sections []any
}

// PagePath names one renderable page.
type PagePath struct {
	Slug   string
	Locale string
}

// Source is the content source fetch interface.
type Source interface {
	FetchPage(ctx context.Context, path, locale string, opts ...Option) (*Page, error)
	FetchNavigation(ctx context.Context, opts ...Option) (Document, error)
	FetchFooter(ctx context.Context, opts ...Option) (Document, error)
	FetchAllPagePaths(ctx context.Context) ([]PagePath, error)
}

type options struct {
	token   string
	preview bool
}

// Option modifies a single fetch.
type Option func(*options)

// WithToken fetches with an access token. A non-empty token implies
// WithPreview.
func WithToken(token string) Option {
	return func(o *options) {
		o.token = token
		o.preview = o.preview || token != ""
	}
}

// WithPreview makes draft content visible.
func WithPreview() Option {
	return func(o *options) {
		o.preview = true
	}
}

// IsPreview reports whether opts make draft content visible.
func IsPreview(opts ...Option) bool {
	return collect(opts).preview
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CleanSlug returns slug with exactly one leading slash and no trailing one.
// The empty slug is the home page "/".
func CleanSlug(slug string) string {
	slug = strings.Trim(strings.TrimSpace(slug), "/")
	return "/" + slug
}

func pageFromDocument(doc Document, locale string) *Page {
	p := &Page{Locale: locale}
	p.Title, _ = doc["title"].(string)
	switch s := doc["slug"].(type) {
	case string:
		p.Slug = CleanSlug(s)
	case map[string]any:
		cur, _ := s["current"].(string)
		p.Slug = CleanSlug(cur)
	case Document:
		cur, _ := s["current"].(string)
		p.Slug = CleanSlug(cur)
	default:
		p.Slug = "/"
	}
	if l, ok := doc["locale"].(string); ok && l != "" {
		p.Locale = l
	} else if l, ok := doc["_lang"].(string); ok && l != "" {
		p.Locale = l
	}
	if sections, ok := doc["sections"].([]any); ok {
		p.Sections = sections
	}
	return p
}
