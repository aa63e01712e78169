package backend

import (
	"context"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	pagesDir  = "pages"
	draftsDir = "drafts"
)

var docExts = []string{".yaml", ".yml", ".json"}

// FileSystem serves content documents from a Backend laid out as
//
//	pages/<locale>/<name>.yaml   page documents per locale
//	pages/<name>.yaml            locale independent pages
//	navigation.yaml, footer.yaml global documents
//	drafts/...                   same layout, only visible in preview
//
// JSON documents are accepted as well.
type FileSystem struct {
	fs Backend
}

// NewFileSystem returns a Source reading from b.
func NewFileSystem(b Backend) *FileSystem {
	return &FileSystem{fs: b}
}

// Backend returns the underlying content root.
func (s *FileSystem) Backend() Backend {
	return s.fs
}

func (s *FileSystem) roots(o options) []string {
	if o.preview {
		return []string{draftsDir, ""}
	}
	return []string{""}
}

func (s *FileSystem) FetchPage(ctx context.Context, p, locale string, opts ...Option) (*Page, error) {
	o := collect(opts)
	slug := CleanSlug(p)
	for _, root := range s.roots(o) {
		dirs := []string{path.Join(root, pagesDir, locale), path.Join(root, pagesDir)}
		if locale == "" {
			dirs = dirs[1:]
		}
		for _, dir := range dirs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			docs, err := s.readDir(dir)
			if err != nil {
				return nil, err
			}
			for _, doc := range docs {
				page := pageFromDocument(doc, locale)
				if page.Slug == slug {
					return page, nil
				}
			}
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "page %q (locale %q)", slug, locale)
}

func (s *FileSystem) FetchNavigation(ctx context.Context, opts ...Option) (Document, error) {
	return s.global(ctx, "navigation", collect(opts))
}

func (s *FileSystem) FetchFooter(ctx context.Context, opts ...Option) (Document, error) {
	return s.global(ctx, "footer", collect(opts))
}

func (s *FileSystem) FetchAllPagePaths(ctx context.Context) ([]PagePath, error) {
	var paths []PagePath
	fis, err := s.list(pagesDir)
	if err != nil {
		return nil, err
	}
	for _, fi := range fis {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			continue
		}
		docs, err := s.readDir(path.Join(pagesDir, fi.Name()))
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			paths = append(paths, PagePath{Slug: pageFromDocument(doc, fi.Name()).Slug, Locale: fi.Name()})
		}
	}
	docs, err := s.readDir(pagesDir)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		paths = append(paths, PagePath{Slug: pageFromDocument(doc, "").Slug})
	}
	sort.SliceStable(paths, func(i, j int) bool {
		if paths[i].Locale != paths[j].Locale {
			return paths[i].Locale < paths[j].Locale
		}
		return paths[i].Slug < paths[j].Slug
	})
	return paths, nil
}

func (s *FileSystem) global(ctx context.Context, name string, o options) (Document, error) {
	for _, root := range s.roots(o) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, ext := range docExts {
			doc, err := s.readDoc(path.Join(root, name+ext))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			return doc, nil
		}
	}
	return nil, nil
}

func (s *FileSystem) list(dir string) ([]fs.FileInfo, error) {
	d, err := s.fs.Open(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open directory: %q", dir)
	}
	defer d.Close()
	fis, err := d.Readdir(-1)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read directory: %q", dir)
	}
	sort.Slice(fis, func(i, j int) bool { return fis[i].Name() < fis[j].Name() })
	return fis, nil
}

func (s *FileSystem) readDir(dir string) ([]Document, error) {
	fis, err := s.list(dir)
	if err != nil {
		return nil, err
	}
	var docs []Document
	for _, fi := range fis {
		if fi.IsDir() || !isDocument(fi.Name()) {
			continue
		}
		doc, err := s.readDoc(path.Join(dir, fi.Name()))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *FileSystem) readDoc(name string) (Document, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Decoding into Document directly would make every nested mapping a
	// Document as well.
	var m map[string]any
	if err := yaml.NewDecoder(f).Decode(&m); err != nil {
		return nil, errors.Wrapf(err, "Cannot parse document: %q", name)
	}
	return Document(m), nil
}

func isDocument(name string) bool {
	for _, ext := range docExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
