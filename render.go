package glubsite

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/raymondbutcher/tidyhtml"
)

const tmplPath = "templates"

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

// DefaultTemplates returns the built-in template set.
func DefaultTemplates() http.FileSystem {
	return http.FS(builtinTemplates)
}

// Renderer renders assembled pages to HTML.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses templates/*.tmpl from fs. Each file defines the
// template named after it without the extension. Besides "main" and the
// status pages there has to be one template per component kind.
func NewRenderer(fs http.FileSystem) (*Renderer, error) {
	r := &Renderer{}
	t, err := parseTemplates(fs, template.FuncMap{
		"section":  r.section,
		"markdown": Markdown,
	})
	if err != nil {
		return nil, err
	}
	r.tmpl = t

	need := []string{"main", "notfound", "placeholder", "preview"}
	for k := Kind(0); k < kindCount; k++ {
		need = append(need, k.String())
	}
	for _, n := range need {
		if t.Lookup(n) == nil {
			return nil, errors.Errorf("missing template %q", n)
		}
	}
	return r, nil
}

// RendererFor uses the templates shipped with the content if there are
// any, the built-in ones otherwise.
func RendererFor(content http.FileSystem) (*Renderer, error) {
	if content != nil {
		if d, err := content.Open(tmplPath); err == nil {
			d.Close()
			return NewRenderer(content)
		}
	}
	return NewRenderer(DefaultTemplates())
}

func parseTemplates(fs http.FileSystem, funcs template.FuncMap) (*template.Template, error) {
	dir, err := fs.Open(tmplPath)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open directory: %q", tmplPath)
	}
	defer dir.Close()
	tmain := template.New("_").Funcs(funcs)
	fis, err := dir.Readdir(-1)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read directory: %q", tmplPath)
	}
	for _, fi := range fis {
		if !strings.HasSuffix(fi.Name(), ".tmpl") {
			continue
		}
		fpath := path.Join(tmplPath, fi.Name())
		data, err := fs.Open(fpath)
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot open file: %q", fpath)
		}
		databytes, err := io.ReadAll(data)
		data.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot read file: %q", fpath)
		}

		tname := strings.TrimSuffix(fi.Name(), ".tmpl")
		_, err = tmain.New(tname).Parse(string(databytes))
		if err != nil {
			return nil, errors.Wrapf(err, "Cannot parse template: %q", fpath)
		}
	}

	return tmain, nil
}

func (r *Renderer) section(e Element) (template.HTML, error) {
	if e.View == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, e.Kind.String(), e.View); err != nil {
		return "", errors.Wrapf(err, "rendering section %q", e.Key)
	}
	return template.HTML(buf.String()), nil
}

type frame struct {
	Status string
	Page   *Page
}

func (r *Renderer) render(w io.Writer, status string, p *Page) error {
	buf := bytes.Buffer{}
	if err := r.tmpl.ExecuteTemplate(&buf, "main", frame{Status: status, Page: p}); err != nil {
		return errors.Wrapf(err, "template execution failed: %q", p.Slug)
	}
	if err := tidyhtml.Copy(w, &buf); err != nil {
		return errors.Wrapf(err, "tidyhtml failed: %q", p.Slug)
	}
	return nil
}

// RenderPage writes p in the site frame.
func (r *Renderer) RenderPage(w io.Writer, p *Page) error {
	return r.render(w, "page", p)
}

// RenderNotFound writes the 404 page in the frame of p.
func (r *Renderer) RenderNotFound(w io.Writer, p *Page) error {
	return r.render(w, "notfound", p)
}

// RenderPlaceholder writes the page shown in preview for a slug that has
// no content yet.
func (r *Renderer) RenderPlaceholder(w io.Writer, p *Page) error {
	return r.render(w, "placeholder", p)
}
