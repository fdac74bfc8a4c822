package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/statview/internal/app"
	"github.com/five82/statview/internal/favorites"
	"github.com/five82/statview/internal/statista"
)

func newSearchCmd(root *rootFlags) *cobra.Command {
	var (
		page    int
		realAPI bool
	)
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Print one page of search results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 0 {
				return fmt.Errorf("--page must not be negative")
			}
			env, err := app.Setup(root.config, version)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			q := statista.Query{Term: strings.Join(args, " "), RealAPI: realAPI, Page: page}
			items, err := env.Searcher.Search(cmd.Context(), q)
			if err != nil {
				return err
			}
			favs, err := env.Favorites.List(cmd.Context())
			if err != nil {
				env.Logger.Warn("listing favorites failed", "err", err)
			}
			printItems(cmd.OutOrStdout(), items, favs)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page index")
	cmd.Flags().BoolVar(&realAPI, "real-api", false, "use the remote search API")
	return cmd
}

// printItems writes one tab separated line per item, starring favorites.
func printItems(w io.Writer, items, favs []statista.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No results")
		return
	}
	for _, item := range items {
		star := " "
		if favorites.ContainsID(favs, item.Identifier) {
			star = "★"
		}
		line := fmt.Sprintf("%s %d\t%s", star, item.Identifier, item.Title)
		if subject := strings.TrimSpace(item.Subject); subject != "" {
			line += "\t" + subject
		}
		if item.IsPremium() {
			line += "\t[Premium]"
		}
		fmt.Fprintln(w, line)
	}
}
