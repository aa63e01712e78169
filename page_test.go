package glubsite

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"testing/fstest"

	"github.com/lemmi/glubsite/backend"
	"github.com/lemmi/glubsite/i18n"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSite(t *testing.T) (*Site, *fakeSource) {
	t.Helper()
	src := newFakeSource()
	src.addPage("en-GB", &backend.Page{
		Title:  "Home",
		Slug:   "/",
		Locale: "en-GB",
		Sections: []any{
			map[string]any{"_type": "MainHero", "_key": "hero", "heading": "Welcome"},
			map[string]any{"_type": "Bogus", "_key": "bogus"},
			map[string]any{"_type": "Stats", "_key": "stats", "items": []any{
				map[string]any{"value": "20M", "label": "students"},
			}},
		},
	})
	locales, err := i18n.NewResolver(i18n.DefaultLocales, "en-GB", nil)
	require.NoError(t, err)
	return NewSite(src, locales), src
}

func TestAssemble(t *testing.T) {
	site, src := testSite(t)
	var logs bytes.Buffer

	p, err := site.Assemble(logContext(&logs), Request{Path: "/", Locale: "en-GB"})
	require.NoError(t, err)
	assert.Equal(t, "Home", p.Title)
	assert.Equal(t, "en-GB", p.Locale)
	assert.False(t, p.Preview)
	assert.Equal(t, []string{"hero", "stats"}, keys(p.Sections))
	require.NotNil(t, p.Navigation)
	require.NotNil(t, p.Footer)
	assert.Len(t, p.Locales, 3)
	assert.Contains(t, logs.String(), "Bogus")

	p, err = site.Assemble(context.Background(), Request{Path: "", Locale: "en-GB"})
	require.NoError(t, err)
	assert.False(t, p.Preview)
	assert.EqualValues(t, 1, src.navCalls.Load(), "global content is fetched once")
}

func TestAssemblePreviewBypassesGlobalCache(t *testing.T) {
	site, src := testSite(t)
	src.draftNav = backend.Document{"menu": []any{
		map[string]any{"label": "Draft", "url": "/draft"},
	}}
	ctx := context.Background()

	p, err := site.Assemble(ctx, Request{Path: "/", Locale: "en-GB", Token: "t"})
	require.NoError(t, err)
	assert.True(t, p.Preview)
	require.Len(t, p.Navigation.Menu, 1)
	assert.Equal(t, "Draft", p.Navigation.Menu[0].Label)
	assert.Equal(t, CacheEmpty, site.Globals.State(), "preview content is not cached")

	p, err = site.Assemble(ctx, Request{Path: "/", Locale: "en-GB"})
	require.NoError(t, err)
	require.Len(t, p.Navigation.Menu, 1)
	assert.Equal(t, "Students", p.Navigation.Menu[0].Label)

	p, err = site.Assemble(ctx, Request{Path: "/", Locale: "en-GB", Preview: true})
	require.NoError(t, err)
	assert.Equal(t, "Draft", p.Navigation.Menu[0].Label)
	assert.EqualValues(t, 3, src.navCalls.Load())
	assert.Equal(t, CachePopulated, site.Globals.State())
}

func TestAssembleNotFound(t *testing.T) {
	site, _ := testSite(t)

	_, err := site.Assemble(context.Background(), Request{Path: "/missing", Locale: "en-GB"})
	var nf *PageNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "/missing", nf.Path)
	assert.Equal(t, "en-GB", nf.Locale)

	_, err = site.Assemble(context.Background(), Request{Path: "/", Locale: "de-DE"})
	assert.True(t, errors.As(err, &nf))
}

func TestAssembleGlobalFailure(t *testing.T) {
	site, src := testSite(t)
	src.navErr = errors.New("cms down")

	_, err := site.Assemble(context.Background(), Request{Path: "/", Locale: "en-GB"})
	var fetchErr *GlobalContentFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "navigation", fetchErr.Document)

	// global failures win over a missing page
	_, err = site.Assemble(context.Background(), Request{Path: "/missing", Locale: "en-GB"})
	assert.True(t, errors.As(err, &fetchErr))
}

func TestFrame(t *testing.T) {
	site, src := testSite(t)
	p := site.Frame(context.Background(), Request{Path: "new", Locale: "fr-FR", Preview: true})
	assert.Equal(t, "fr-FR", p.Locale)
	assert.Equal(t, "/new", p.Slug)
	assert.True(t, p.Preview)
	assert.NotNil(t, p.Navigation)

	site.Globals.Reset()
	src.set(func(s *fakeSource) { s.navErr = errors.New("down") })
	p = site.Frame(context.Background(), Request{Locale: "en-GB"})
	assert.False(t, p.Preview)
	assert.Nil(t, p.Navigation)
}

func TestAssembleFromFileSystem(t *testing.T) {
	content := http.FS(fstest.MapFS{
		"navigation.yaml": {Data: []byte(`
menu:
  - label: Students
    url: /students
    submenu:
      - label: Courses
        url: /courses
`)},
		"footer.yaml": {Data: []byte(`
copyright: (c) Example
columns:
  - title: Company
    links:
      - label: About
        url: /about
`)},
		"pages/en-GB/about.yaml": {Data: []byte(`
title: About
slug:
  current: about
sections:
  - _type: Quote
    quote: Hello
`)},
		"pages/en-GB/home.yaml": {Data: []byte(`
title: Home
slug: /
sections:
  - _type: MainHero
    _key: hero
    heading: Welcome
  - _type: Bogus
  - _type: Stats
    _key: stats
    items:
      - value: 20M
        label: students
`)},
	})
	locales, err := i18n.NewResolver(i18n.DefaultLocales, "en-GB", nil)
	require.NoError(t, err)
	site := NewSite(backend.NewFileSystem(content), locales)
	var logs bytes.Buffer

	p, err := site.Assemble(logContext(&logs), Request{Path: "/", Locale: "en-GB"})
	require.NoError(t, err)
	assert.Equal(t, "Home", p.Title)
	assert.Equal(t, []Kind{KindHero, KindContentGrid}, kinds(p.Sections))
	assert.Equal(t, []string{"hero", "stats"}, keys(p.Sections))
	assert.Equal(t, "Welcome", p.Sections[0].View.(*Hero).Heading)
	grid := p.Sections[1].View.(*ContentGrid)
	require.Len(t, grid.Items, 1)
	assert.Equal(t, "20M", grid.Items[0].Value)
	assert.NotContains(t, logs.String(), "section without type")

	require.NotNil(t, p.Navigation)
	require.Len(t, p.Navigation.Menu, 1)
	assert.Equal(t, "Students", p.Navigation.Menu[0].Label)
	assert.Len(t, p.Navigation.Menu[0].Submenu, 1)
	require.NotNil(t, p.Footer)
	assert.Equal(t, "(c) Example", p.Footer.Copyright)
	assert.Len(t, p.Footer.Columns, 1)

	p, err = site.Assemble(context.Background(), Request{Path: "/about", Locale: "en-GB"})
	require.NoError(t, err)
	assert.Equal(t, "About", p.Title)
	assert.Equal(t, "/about", p.Slug)
	assert.Equal(t, []Kind{KindContentBlock}, kinds(p.Sections))
}
