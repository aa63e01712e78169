package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	pageBySlugQuery = `*[_type == "page" && slug.current == $slug && (!defined(_lang) || _lang == $locale)][0] {
  ...,
  "slug": slug.current,
}`
	pagePathsQuery  = `*[_type == "page" && slug.current != null] { "slug": slug.current, "lang": _lang }`
	navigationQuery = `*[_type == "navigation"][0]`
	footerQuery     = `*[_type == "footer"][0]`
)

// APIConfig configures an API source.
type APIConfig struct {
	// BaseURL of the project, e.g. https://<project>.api.sanity.io
	BaseURL    string
	Dataset    string
	APIVersion string
	Client     *http.Client
}

// API is a Source talking to a hosted content lake through its query
// endpoint: GET {base}/v{version}/data/query/{dataset}?query=...&$param=...
type API struct {
	endpoint string
	client   *http.Client
}

// NewAPI validates cfg and returns an API source.
func NewAPI(cfg APIConfig) (*API, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("api: base url is required")
	}
	if cfg.Dataset == "" {
		cfg.Dataset = "production"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2022-11-15"
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 10 * time.Second}
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "api: invalid base url %q", cfg.BaseURL)
	}
	return &API{
		endpoint: fmt.Sprintf("%s/v%s/data/query/%s", base.String(), cfg.APIVersion, url.PathEscape(cfg.Dataset)),
		client:   cfg.Client,
	}, nil
}

func (a *API) FetchPage(ctx context.Context, p, locale string, opts ...Option) (*Page, error) {
	slug := CleanSlug(p)
	var doc Document
	err := a.query(ctx, pageBySlugQuery, map[string]string{"slug": slug, "locale": locale}, collect(opts), &doc)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.Wrapf(ErrNotFound, "page %q (locale %q)", slug, locale)
	}
	return pageFromDocument(doc, locale), nil
}

func (a *API) FetchNavigation(ctx context.Context, opts ...Option) (Document, error) {
	var doc Document
	err := a.query(ctx, navigationQuery, nil, collect(opts), &doc)
	return doc, err
}

func (a *API) FetchFooter(ctx context.Context, opts ...Option) (Document, error) {
	var doc Document
	err := a.query(ctx, footerQuery, nil, collect(opts), &doc)
	return doc, err
}

func (a *API) FetchAllPagePaths(ctx context.Context) ([]PagePath, error) {
	var rows []struct {
		Slug string `json:"slug"`
		Lang string `json:"lang"`
	}
	if err := a.query(ctx, pagePathsQuery, nil, options{}, &rows); err != nil {
		return nil, err
	}
	paths := make([]PagePath, 0, len(rows))
	for _, r := range rows {
		paths = append(paths, PagePath{Slug: CleanSlug(r.Slug), Locale: r.Lang})
	}
	return paths, nil
}

func (a *API) query(ctx context.Context, q string, params map[string]string, o options, v any) error {
	values := url.Values{}
	values.Set("query", q)
	for k, p := range params {
		b, err := json.Marshal(p)
		if err != nil {
			return errors.Wrapf(err, "api: encoding param %q", k)
		}
		values.Set("$"+k, string(b))
	}
	if o.preview {
		values.Set("perspective", "previewDrafts")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint+"?"+values.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "api: building request")
	}
	req.Header.Set("Accept", "application/json")
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "api: query failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Errorf("api: query failed with %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errors.Wrap(err, "api: decoding response")
	}
	if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
		return nil
	}
	return errors.Wrap(json.Unmarshal(envelope.Result, v), "api: decoding result")
}
