package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/statview/internal/app"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type rootFlags struct {
	config  string
	prefs   string
	route   string
	realAPI bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "statview",
		Short:         "Browse statistics search results in the terminal",
		Long:          "statview searches a statistics catalogue page by page and keeps a local list of favorite statistics.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.Options{
				ConfigPath: flags.config,
				PrefsPath:  flags.prefs,
				Route:      flags.route,
				Version:    version,
			}
			if cmd.Flags().Changed("real-api") {
				opts.RealAPI = &flags.realAPI
			}
			return app.Run(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.config, "config", "", "path to config file")
	cmd.Flags().StringVar(&flags.prefs, "prefs", "", "path to prefs file")
	cmd.Flags().StringVar(&flags.route, "route", "", "open a statistic/<id>?... link on start")
	cmd.Flags().BoolVar(&flags.realAPI, "real-api", false, "use the remote search API instead of the demo document")

	cmd.AddCommand(newVersionCmd(), newSearchCmd(flags), newFavoritesCmd(flags), newLogsCmd(flags))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "statview %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
