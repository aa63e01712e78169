// Package i18n maps requests and free-form locale strings onto the set of
// locales the site is published in.
package i18n

import (
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// CookieName holds an explicit locale choice.
const CookieName = "NEXT_LOCALE"

// DefaultLocales are the locales published when nothing is configured.
var DefaultLocales = []string{"en-GB", "fr-FR", "de-DE"}

// Locale is one published locale.
type Locale struct {
	Code string
	Tag  language.Tag
}

// Name is the locale's name in its own language, e.g. "Deutsch".
func (l Locale) Name() string {
	return display.Self.Name(l.Tag)
}

// Resolver picks the locale for a request.
type Resolver struct {
	locales []Locale
	def     int
	matcher language.Matcher
	domains map[string]int
}

// NewResolver builds a Resolver for the given locale codes. def must be one
// of them. domains maps host names to a locale code.
func NewResolver(codes []string, def string, domains map[string]string) (*Resolver, error) {
	if len(codes) == 0 {
		codes = DefaultLocales
	}
	r := &Resolver{def: -1, domains: make(map[string]int)}
	tags := make([]language.Tag, 0, len(codes))
	for i, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid locale %q", code)
		}
		r.locales = append(r.locales, Locale{Code: code, Tag: tag})
		tags = append(tags, tag)
		if code == def {
			r.def = i
		}
	}
	if def == "" {
		r.def = 0
	}
	if r.def < 0 {
		return nil, errors.Errorf("default locale %q is not one of %v", def, codes)
	}
	// the matcher falls back to its first tag
	tags[0], tags[r.def] = tags[r.def], tags[0]
	r.matcher = language.NewMatcher(tags)

	for host, code := range domains {
		i := r.index(code)
		if i < 0 {
			return nil, errors.Errorf("domain %q maps to unknown locale %q", host, code)
		}
		r.domains[strings.ToLower(host)] = i
	}
	return r, nil
}

// Locales returns the published locales in configured order.
func (r *Resolver) Locales() []Locale {
	return append([]Locale(nil), r.locales...)
}

// Default returns the default locale code.
func (r *Resolver) Default() string {
	return r.locales[r.def].Code
}

// Normalize maps any locale string ("de", "fr_FR", "en-US") to the closest
// published locale, or the default.
func (r *Resolver) Normalize(code string) string {
	if i := r.index(code); i >= 0 {
		return r.locales[i].Code
	}
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return r.Default()
	}
	return r.match(tag)
}

// FromRequest resolves the locale of req: an explicit ?lang= parameter, the
// locale cookie, the host's domain mapping, then Accept-Language.
func (r *Resolver) FromRequest(req *http.Request) string {
	if lang := req.URL.Query().Get("lang"); lang != "" {
		return r.Normalize(lang)
	}
	if c, err := req.Cookie(CookieName); err == nil && c.Value != "" {
		return r.Normalize(c.Value)
	}
	host := req.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if i, ok := r.domains[strings.ToLower(host)]; ok {
		return r.locales[i].Code
	}
	tags, _, err := language.ParseAcceptLanguage(req.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return r.Default()
	}
	return r.match(tags...)
}

func (r *Resolver) match(tags ...language.Tag) string {
	_, i, conf := r.matcher.Match(tags...)
	if conf == language.No {
		return r.Default()
	}
	// undo the swap done in NewResolver
	switch i {
	case 0:
		i = r.def
	case r.def:
		i = 0
	}
	return r.locales[i].Code
}

func (r *Resolver) index(code string) int {
	for i, l := range r.locales {
		if strings.EqualFold(l.Code, code) {
			return i
		}
	}
	return -1
}
