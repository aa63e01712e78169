package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPathsCmd(app func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List the pages known to the content source",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			paths, err := app().source.FetchAllPagePaths(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range paths {
				locale := p.Locale
				if locale == "" {
					locale = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\n", locale, p.Slug)
			}
			return tw.Flush()
		},
	}
}
