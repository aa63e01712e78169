package glubsite

import (
	"html/template"
	"regexp"
	"strings"
)

var (
	reMailto = regexp.MustCompile(`(?i)^mailto?`)
	reHTTP   = regexp.MustCompile(`(?i)^http?`)
	reColor  = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|(rgb|hsl)a?\([0-9.,%\s]+\)|[a-zA-Z]+)$`)
)

// Link is a labelled URL authored in the content source.
type Link struct {
	Key   string
	Label string
	URL   string
}

func newLink(p Props) (Link, bool) {
	l := Link{
		Key:   p.String("_key"),
		Label: strings.TrimSpace(p.String("label")),
		URL:   strings.TrimSpace(p.String("url")),
	}
	return l, l.Label != ""
}

func newLinks(ps []Props) []Link {
	var out []Link
	for _, p := range ps {
		if l, ok := newLink(p); ok {
			out = append(out, l)
		}
	}
	return out
}

func (l Link) Href() string   { return href(l.URL) }
func (l Link) External() bool { return isExternal(l.URL) }
func (l Link) Target() string { return target(l.URL) }

func isExternal(url string) bool {
	return reHTTP.MatchString(url) || reMailto.MatchString(url)
}

// href makes internal links root relative and never returns "".
func href(url string) string {
	switch {
	case isExternal(url):
		return url
	case url == "":
		return "/"
	case strings.HasPrefix(url, "/"), strings.HasPrefix(url, "#"):
		return url
	}
	return "/" + url
}

func target(url string) string {
	switch {
	case !isExternal(url):
		return ""
	case reMailto.MatchString(url):
		return "_self"
	}
	return "_blank"
}

// Cta is a call to action button.
type Cta struct {
	URL     string
	Text    string
	Primary bool
}

// NewCta returns nil for missing, disabled or label-less CTAs.
func NewCta(p Props) *Cta {
	if p == nil || !p.Bool("isEnabled", true) {
		return nil
	}
	text := strings.TrimSpace(p.String("text"))
	if text == "" {
		text = strings.TrimSpace(p.String("label"))
	}
	if text == "" {
		return nil
	}
	return &Cta{
		URL:     strings.TrimSpace(p.String("url")),
		Text:    text,
		Primary: p.Bool("hasPrimaryCta", p.Bool("isPrimary", true)),
	}
}

func newCtas(ps []Props) []Cta {
	var out []Cta
	for _, p := range ps {
		if c := NewCta(p); c != nil {
			out = append(out, *c)
		}
	}
	return out
}

func (c Cta) Href() string   { return href(c.URL) }
func (c Cta) External() bool { return isExternal(c.URL) }
func (c Cta) Target() string { return target(c.URL) }

// Image is a resolved image or file reference.
type Image struct {
	URL string
	Alt string
}

// NewImage resolves an authored image or file field. It accepts a plain
// URL, an object with an expanded asset ({asset: {url}}) or an object with
// a url. Unresolvable references yield nil.
func NewImage(v any, alt string) *Image {
	url := AssetURL(v)
	if url == "" {
		return nil
	}
	if alt == "" {
		if p, ok := asProps(v); ok {
			alt = p.String("alt")
		}
	}
	return &Image{URL: url, Alt: alt}
}

// AssetURL extracts the URL of an image or file field.
func AssetURL(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	p, ok := asProps(v)
	if !ok {
		return ""
	}
	if u := p.Map("asset").String("url"); u != "" {
		return u
	}
	return p.String("url")
}

// cssColor returns c as a CSS value if it looks like a color, "" otherwise.
func cssColor(c string) template.CSS {
	c = strings.TrimSpace(c)
	if !reColor.MatchString(c) {
		return ""
	}
	return template.CSS("background-color: " + c)
}
