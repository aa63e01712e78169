package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(DefaultLocales, "en-GB", map[string]string{
		"localhost.de": "de-DE",
		"localhost.fr": "fr-FR",
	})
	require.NoError(t, err)
	return r
}

func TestNormalize(t *testing.T) {
	r := newTestResolver(t)
	for in, want := range map[string]string{
		"en-GB":   "en-GB",
		"de-de":   "de-DE",
		"de":      "de-DE",
		"fr_FR":   "fr-FR",
		"ja":      "en-GB",
		"garbage": "en-GB",
		"":        "en-GB",
	} {
		assert.Equal(t, want, r.Normalize(in), in)
	}
}

func TestFromRequest(t *testing.T) {
	r := newTestResolver(t)

	req := httptest.NewRequest(http.MethodGet, "http://localhost.de:3000/about", nil)
	assert.Equal(t, "de-DE", r.FromRequest(req))

	req = httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	req.Header.Set("Accept-Language", "fr-CH, fr;q=0.9, en;q=0.8")
	assert.Equal(t, "fr-FR", r.FromRequest(req))

	req = httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	assert.Equal(t, "en-GB", r.FromRequest(req))

	req = httptest.NewRequest(http.MethodGet, "http://localhost.de/?lang=fr-FR", nil)
	assert.Equal(t, "fr-FR", r.FromRequest(req))

	req = httptest.NewRequest(http.MethodGet, "http://localhost.fr/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "de-DE"})
	assert.Equal(t, "de-DE", r.FromRequest(req))
}

func TestNonFirstDefault(t *testing.T) {
	r, err := NewResolver(DefaultLocales, "de-DE", nil)
	require.NoError(t, err)
	assert.Equal(t, "de-DE", r.Default())
	assert.Equal(t, "de-DE", r.Normalize("ja"))
	assert.Equal(t, "en-GB", r.Normalize("en"))
	assert.Equal(t, "fr-FR", r.Normalize("fr"))
}

func TestNewResolverErrors(t *testing.T) {
	_, err := NewResolver([]string{"en-GB"}, "de-DE", nil)
	assert.Error(t, err)

	_, err = NewResolver([]string{"en-GB"}, "en-GB", map[string]string{"x.de": "de-DE"})
	assert.Error(t, err)

	_, err = NewResolver([]string{"not a locale!"}, "", nil)
	assert.Error(t, err)
}

func TestLocaleName(t *testing.T) {
	r := newTestResolver(t)
	for _, l := range r.Locales() {
		assert.NotEmpty(t, l.Name(), l.Code)
	}
}
