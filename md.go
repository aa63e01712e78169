package glubsite

import (
	"bytes"
	"html/template"
	"strings"

	bm "github.com/microcosm-cc/bluemonday"
	bf "github.com/russross/blackfriday"
)

// ImageAltTitleCopy fills in a missing image title from its alt text and
// vice versa.
type ImageAltTitleCopy struct {
	bf.Renderer
}

func (md ImageAltTitleCopy) Image(out *bytes.Buffer, link []byte, title []byte, alt []byte) {
	if len(title) == 0 {
		title = alt
	}
	if len(alt) == 0 {
		alt = title
	}
	md.Renderer.Image(out, link, title, alt)
}

const mdExtensions = bf.EXTENSION_TABLES |
	bf.EXTENSION_AUTOLINK |
	bf.EXTENSION_STRIKETHROUGH |
	bf.EXTENSION_NO_INTRA_EMPHASIS

var ugcPolicy = bm.UGCPolicy()

// Markdown renders an authored rich text field to sanitized HTML.
func Markdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	html := bf.Markdown([]byte(src),
		ImageAltTitleCopy{
			bf.HtmlRenderer(0, "", ""),
		}, mdExtensions)
	return template.HTML(ugcPolicy.SanitizeBytes(html))
}

// Sanitize strips anything unsafe from authored HTML.
func Sanitize(html string) template.HTML {
	return template.HTML(ugcPolicy.Sanitize(html))
}
