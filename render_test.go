package glubsite

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderString(t *testing.T, f func(*strings.Builder) error) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, f(&sb))
	return sb.String()
}

func TestRenderPage(t *testing.T) {
	site, _ := testSite(t)
	p, err := site.Assemble(context.Background(), Request{Path: "/", Locale: "en-GB"})
	require.NoError(t, err)

	r, err := NewRenderer(DefaultTemplates())
	require.NoError(t, err)

	html := renderString(t, func(sb *strings.Builder) error { return r.RenderPage(sb, p) })
	assert.Contains(t, html, "Welcome")
	assert.Contains(t, html, "20M")
	assert.Contains(t, html, "students")
	assert.Contains(t, html, "Students")
	assert.Contains(t, html, "(c) Example")
	assert.Contains(t, html, "Deutsch")
	assert.NotContains(t, html, "Preview mode")
	assert.Less(t, strings.Index(html, "Welcome"), strings.Index(html, "20M"))
}

func TestRenderStatusPages(t *testing.T) {
	site, _ := testSite(t)
	r, err := NewRenderer(DefaultTemplates())
	require.NoError(t, err)

	p := site.Frame(context.Background(), Request{Locale: "en-GB"})
	html := renderString(t, func(sb *strings.Builder) error { return r.RenderNotFound(sb, p) })
	assert.Contains(t, html, "404")
	assert.Contains(t, html, "Students")

	p = site.Frame(context.Background(), Request{Path: "/new-page", Locale: "en-GB", Token: "token"})
	html = renderString(t, func(sb *strings.Builder) error { return r.RenderPlaceholder(sb, p) })
	assert.Contains(t, html, "Start editing")
	assert.Contains(t, html, "/new-page")
	assert.Contains(t, html, "Preview mode")
}

func TestRenderEmptyLogoCarousel(t *testing.T) {
	r, err := NewRenderer(DefaultTemplates())
	require.NoError(t, err)

	e, err := DefaultBuilder().Resolve(map[string]any{"_type": "LogoCarousel", "heading": "Partners"})
	require.NoError(t, err)
	html, err := r.section(e)
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(string(html)))
}

func TestNewRendererMissingTemplate(t *testing.T) {
	fs := http.FS(fstest.MapFS{
		"templates/main.tmpl": {Data: []byte(`{{range .Page.Sections}}{{section .}}{{end}}`)},
	})
	_, err := NewRenderer(fs)
	assert.ErrorContains(t, err, "missing template")
}

func TestRendererForFallsBack(t *testing.T) {
	r, err := RendererFor(http.FS(fstest.MapFS{"static/site.css": {Data: []byte("")}}))
	require.NoError(t, err)
	assert.NotNil(t, r.tmpl.Lookup("Hero"))

	_, err = RendererFor(http.FS(fstest.MapFS{"templates/broken.tmpl": {Data: []byte("{{")}}))
	assert.Error(t, err)
}
