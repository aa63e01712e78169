package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		a       *app
	)
	root := &cobra.Command{
		Use:           "gcserver",
		Short:         "Serve and export the glubsite marketing site",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, cfgFile)
			if err != nil {
				return err
			}
			DEBUG = cfg.Debug
			slog.SetDefault(newLogger(cfg))
			a, err = newApp(cfg)
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./glubsite.yaml)")
	pf.String("content", "", "path to the content root")
	pf.Bool("git", false, "content is a git repo")
	pf.String("branch", "master", "branch to serve in git mode")
	pf.String("api-url", "", "base url of the content API, replaces --content as page source")
	pf.String("dataset", "production", "content API dataset")
	pf.String("api-version", "2022-11-15", "content API version")
	pf.String("preview-token", "", "token used for preview requests that carry none")
	pf.String("aliases", "", "YAML file with section type aliases")
	pf.StringSlice("locales", []string{"en-GB", "fr-FR", "de-DE"}, "published locales")
	pf.String("default-locale", "en-GB", "locale used when none matches")
	pf.Duration("cache-timeout", 30*time.Second, "timeout for fetching navigation and footer")
	pf.String("log-level", "info", "debug, info, warn or error")
	pf.String("log-format", "text", "text or json")
	pf.Bool("debug", false, "set debug output")

	app := func() *app { return a }
	root.AddCommand(
		newServeCmd(app),
		newBuildCmd(app),
		newPathsCmd(app),
	)
	return root
}
