package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/lemmi/glubsite"
	"github.com/lemmi/glubsite/backend"
	"github.com/lemmi/glubsite/internal/ctxlog"
	natomic "github.com/natefinch/atomic"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newBuildCmd(app func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Export every page as static HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a := app()
			ctx = ctxlog.WithLogger(ctx, slog.Default())
			st, err := build(ctx, a, a.cfg.Out)
			if err != nil {
				return err
			}
			slog.Info("build finished",
				slog.String("out", a.cfg.Out),
				slog.Int64("pages", st.pages.Load()),
				slog.Int64("skipped", st.skipped.Load()),
				slog.Int64("static", st.static.Load()),
			)
			return nil
		},
	}
	cmd.Flags().String("out", "public", "output directory")
	return cmd
}

type buildStats struct {
	pages   atomic.Int64
	skipped atomic.Int64
	static  atomic.Int64
}

// outputPath is where the page at slug is written for locale. Both are
// rooted first so ".." segments cannot leave out.
func outputPath(out, locale, slug string) string {
	locale = strings.Trim(path.Clean("/"+locale), "/")
	slug = strings.Trim(path.Clean("/"+slug), "/")
	return filepath.Join(out, locale, filepath.FromSlash(slug), "index.html")
}

// exportTargets expands locale independent paths to every published
// locale.
func exportTargets(paths []backend.PagePath, locales []string) []backend.PagePath {
	var targets []backend.PagePath
	seen := make(map[backend.PagePath]bool)
	add := func(p backend.PagePath) {
		if !seen[p] {
			seen[p] = true
			targets = append(targets, p)
		}
	}
	for _, p := range paths {
		if p.Locale != "" {
			add(p)
			continue
		}
		for _, l := range locales {
			add(backend.PagePath{Slug: p.Slug, Locale: l})
		}
	}
	return targets
}

func build(ctx context.Context, a *app, out string) (*buildStats, error) {
	st := &buildStats{}
	paths, err := a.source.FetchAllPagePaths(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing pages")
	}
	var locales []string
	for _, l := range a.locales.Locales() {
		locales = append(locales, l.Code)
	}
	renderer := a.renderer.Load()

	// fail early and once if the global content is unavailable
	if _, err := a.site.Globals.Get(ctx, ""); err != nil {
		return nil, err
	}

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for _, target := range exportTargets(paths, locales) {
		eg.Go(func() error {
			log := ctxlog.FromContext(ectx).With(slog.String("page", target.Slug), slog.String("locale", target.Locale))
			p, err := a.site.Assemble(ctxlog.WithLogger(ectx, log), glubsite.Request{Path: target.Slug, Locale: target.Locale})
			var notFound *glubsite.PageNotFoundError
			if errors.As(err, &notFound) {
				log.Warn("skipping page", slog.Any("error", err))
				st.skipped.Add(1)
				return nil
			}
			if err != nil {
				return err
			}
			buf := bytes.Buffer{}
			if err := renderer.RenderPage(&buf, p); err != nil {
				return err
			}
			if err := writeFile(outputPath(out, target.Locale, target.Slug), &buf); err != nil {
				return err
			}
			st.pages.Add(1)
			return nil
		})
	}
	for _, l := range locales {
		eg.Go(func() error {
			buf := bytes.Buffer{}
			if err := renderer.RenderNotFound(&buf, a.site.Frame(ectx, glubsite.Request{Locale: l})); err != nil {
				return err
			}
			return writeFile(filepath.Join(out, l, "404.html"), &buf)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if fs := a.staticFS(); fs != nil {
		if err := copyStatic(fs, "/static", filepath.Join(out, "static"), st); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func writeFile(name string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return errors.Wrapf(err, "creating directory for %q", name)
	}
	return errors.Wrapf(natomic.WriteFile(name, r), "writing %q", name)
}

// copyStatic copies the directory dir of fs to out.
func copyStatic(fs http.FileSystem, dir, out string, st *buildStats) error {
	d, err := fs.Open(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "Cannot open directory: %q", dir)
	}
	fis, err := d.Readdir(-1)
	d.Close()
	if err != nil {
		return errors.Wrapf(err, "Cannot read directory: %q", dir)
	}
	for _, fi := range fis {
		if strings.HasPrefix(fi.Name(), ".") {
			continue
		}
		src := path.Join(dir, fi.Name())
		dst := filepath.Join(out, fi.Name())
		if fi.IsDir() {
			if err := copyStatic(fs, src, dst, st); err != nil {
				return err
			}
			continue
		}
		f, err := fs.Open(src)
		if err != nil {
			return errors.Wrapf(err, "Cannot open file: %q", src)
		}
		err = writeFile(dst, f)
		f.Close()
		if err != nil {
			return err
		}
		st.static.Add(1)
	}
	return nil
}
