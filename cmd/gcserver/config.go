package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lemmi/glubsite"
	"github.com/lemmi/glubsite/backend"
	"github.com/lemmi/glubsite/i18n"
	"github.com/lemmi/glubsite/internal/ctxlog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type config struct {
	Bind    string `mapstructure:"bind"`
	Net     string `mapstructure:"net"`
	Content string `mapstructure:"content"`
	Git     bool   `mapstructure:"git"`
	Branch  string `mapstructure:"branch"`

	APIURL       string `mapstructure:"api-url"`
	Dataset      string `mapstructure:"dataset"`
	APIVersion   string `mapstructure:"api-version"`
	PreviewToken string `mapstructure:"preview-token"`

	Aliases       string            `mapstructure:"aliases"`
	Locales       []string          `mapstructure:"locales"`
	DefaultLocale string            `mapstructure:"default-locale"`
	Domains       map[string]string `mapstructure:"domains"`

	CacheTimeout time.Duration `mapstructure:"cache-timeout"`
	Watch        bool          `mapstructure:"watch"`
	Out          string        `mapstructure:"out"`

	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
	Debug     bool   `mapstructure:"debug"`
}

func loadConfig(cmd *cobra.Command, cfgFile string) (config, error) {
	// domain names contain dots
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))

	v.SetDefault("domains", map[string]string{})

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("glubsite")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("GLUBSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return config{}, errors.Wrap(err, "binding flags")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return config{}, errors.Wrap(err, "reading config file")
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, errors.Wrap(err, "decoding config")
	}
	if f := v.ConfigFileUsed(); f != "" {
		slog.Debug("using config file", slog.String("file", f))
	}
	return cfg, nil
}

// content is the content root. In git mode it can be reloaded to pick up
// new commits.
type content struct {
	path   string
	git    bool
	branch string

	mu sync.RWMutex
	fs backend.Backend
}

func openContent(path string, git bool, branch string) (*content, error) {
	c := &content{path: path, git: git, branch: branch}
	return c, c.reload()
}

func (c *content) reload() error {
	var fs backend.Backend
	if c.git {
		b, err := backend.OpenGit(c.path, c.branch)
		if err != nil {
			return err
		}
		fs = b
	} else {
		abs, err := filepath.Abs(c.path)
		if err != nil {
			return errors.Wrap(err, "filepath.Abs("+c.path+")")
		}
		fs = http.Dir(abs)
	}
	c.mu.Lock()
	c.fs = fs
	c.mu.Unlock()
	return nil
}

func (c *content) Open(name string) (http.File, error) {
	c.mu.RLock()
	fs := c.fs
	c.mu.RUnlock()
	return fs.Open(name)
}

func (c *content) Version() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.fs.(backend.Versioner); ok {
		return v.Version()
	}
	return ""
}

// app holds everything the commands share.
type app struct {
	cfg      config
	content  *content // nil without a content root
	source   backend.Source
	site     *glubsite.Site
	renderer atomic.Pointer[glubsite.Renderer]
	locales  *i18n.Resolver
}

func newApp(cfg config) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.Content != "" {
		c, err := openContent(cfg.Content, cfg.Git, cfg.Branch)
		if err != nil {
			return nil, err
		}
		a.content = c
	}

	switch {
	case cfg.APIURL != "":
		api, err := backend.NewAPI(backend.APIConfig{
			BaseURL:    cfg.APIURL,
			Dataset:    cfg.Dataset,
			APIVersion: cfg.APIVersion,
		})
		if err != nil {
			return nil, err
		}
		a.source = api
	case a.content != nil:
		a.source = backend.NewFileSystem(a.content)
	default:
		return nil, errors.New("either --content or --api-url is required")
	}

	locales, err := i18n.NewResolver(cfg.Locales, cfg.DefaultLocale, cfg.Domains)
	if err != nil {
		return nil, err
	}
	a.locales = locales

	a.site = glubsite.NewSite(a.source, locales, glubsite.WithFetchTimeout(cfg.CacheTimeout))
	if cfg.Aliases != "" {
		f, err := os.Open(cfg.Aliases)
		if err != nil {
			return nil, errors.Wrap(err, "opening alias table")
		}
		defer f.Close()
		tbl, err := glubsite.LoadAliasTable(f)
		if err != nil {
			return nil, errors.Wrapf(err, "alias table %q", cfg.Aliases)
		}
		a.site.Builder = glubsite.NewBuilder(glubsite.DefaultRegistry(), glubsite.NewNormalizer(tbl))
	}

	if err := a.loadTemplates(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) loadTemplates() error {
	r, err := glubsite.RendererFor(a.staticFS())
	if err != nil {
		return err
	}
	a.renderer.Store(r)
	return nil
}

// reload picks up changed content: a new commit in git mode, changed
// templates, and fresh global content.
func (a *app) reload() error {
	if a.content != nil {
		if err := a.content.reload(); err != nil {
			return err
		}
		if err := a.loadTemplates(); err != nil {
			return err
		}
	}
	a.site.Globals.Reset()
	return nil
}

func (a *app) staticFS() http.FileSystem {
	if a.content == nil {
		return nil
	}
	return a.content
}

func (a *app) version() string {
	if a.content == nil {
		return ""
	}
	return a.content.Version()
}

func newLogger(cfg config) *slog.Logger {
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	return ctxlog.New(level, cfg.LogFormat, os.Stderr)
}
