package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lemmi/compress"
	"github.com/lemmi/glubsite"
	"github.com/lemmi/glubsite/internal/ctxlog"
	"github.com/pkg/errors"
)

const previewCookie = "glubsite_preview"

func newHandler(a *app) http.Handler {
	r := chi.NewRouter()
	r.Use(a.withRequestLogger)

	if fs := a.staticFS(); fs != nil {
		staticHandler := glubsite.NewStaticHandler(fs)
		r.Handle("/static/*", staticHandler)
		r.Handle("/robots.txt", staticHandler.Cd("/static"))
		r.Handle("/favicon.ico", staticHandler.Cd("/static"))
	}
	r.Get("/healthz", a.healthz)
	r.Get("/api/preview", a.preview)
	r.Get("/api/exit-preview", a.exitPreview)
	r.Get("/*", a.page)

	return compress.New(r)
}

func (a *app) withRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := ctxlog.FromContext(r.Context()).With(
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		if v := a.version(); v != "" {
			w.Header().Set("ETag", `"`+v+`"`)
		}
		next.ServeHTTP(w, r.WithContext(ctxlog.WithLogger(r.Context(), log)))
		log.Debug("served", slog.Duration("took", time.Since(start)))
	})
}

func (a *app) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

// resolveHref maps a previewed document to the path it is shown at.
func resolveHref(documentType, slug string) (string, bool) {
	switch documentType {
	case "page":
		if strings.HasPrefix(slug, "/") {
			return slug, true
		}
		return "/" + slug, true
	}
	return "", false
}

func (a *app) preview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	href, ok := resolveHref(q.Get("documentType"), q.Get("slug"))
	if !ok {
		ctxlog.FromContext(r.Context()).Warn("cannot resolve preview url",
			slog.String("documentType", q.Get("documentType")))
		http.Error(w, "Unable to resolve preview URL based on the current document type and slug", http.StatusBadRequest)
		return
	}
	token := q.Get("token")
	if token == "" {
		token = a.cfg.PreviewToken
	}
	http.SetCookie(w, &http.Cookie{
		Name:     previewCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, href, http.StatusTemporaryRedirect)
}

func (a *app) exitPreview(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     previewCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	href, ok := resolveHref("page", r.URL.Query().Get("slug"))
	if !ok {
		href = "/"
	}
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, href, http.StatusTemporaryRedirect)
}

func (a *app) page(w http.ResponseWriter, r *http.Request) {
	req := glubsite.Request{
		Path:   chi.URLParam(r, "*"),
		Locale: a.locales.FromRequest(r),
	}
	if c, err := r.Cookie(previewCookie); err == nil {
		req.Preview = true
		req.Token = c.Value
	}

	renderer := a.renderer.Load()
	buf := bytes.Buffer{}
	code := http.StatusOK

	p, err := a.site.Assemble(r.Context(), req)
	var notFound *glubsite.PageNotFoundError
	switch {
	case errors.As(err, &notFound):
		frame := a.site.Frame(r.Context(), req)
		if req.Preview {
			err = renderer.RenderPlaceholder(&buf, frame)
		} else {
			code = http.StatusNotFound
			err = renderer.RenderNotFound(&buf, frame)
		}
	case err != nil:
		HttpError(w, r, http.StatusInternalServerError, errors.Wrapf(err, "page generation failed"))
		return
	default:
		err = renderer.RenderPage(&buf, p)
	}
	if err != nil {
		HttpError(w, r, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", req.Locale)
	if req.Preview {
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", "max-age=32")
	}
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}
