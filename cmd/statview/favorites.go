package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/five82/statview/internal/app"
	"github.com/five82/statview/internal/statista"
)

func newFavoritesCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage saved favorite statistics",
	}
	cmd.AddCommand(newFavoritesListCmd(root), newFavoritesAddCmd(root), newFavoritesRemoveCmd(root))
	return cmd
}

func newFavoritesListCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print saved favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Setup(root.config, version)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			items, err := env.Favorites.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No favorites yet")
				return nil
			}
			printItems(cmd.OutOrStdout(), items, items)
			return nil
		},
	}
}

func newFavoritesAddCmd(root *rootFlags) *cobra.Command {
	var (
		term    string
		page    int
		realAPI bool
	)
	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Search for a statistic and save it as a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env, err := app.Setup(root.config, version)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			items, err := env.Searcher.Search(cmd.Context(), statista.Query{Term: term, RealAPI: realAPI, Page: page})
			if err != nil {
				return err
			}
			for _, item := range items {
				if item.Identifier != id {
					continue
				}
				if err := env.Favorites.Add(cmd.Context(), item); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d: %s\n", item.Identifier, item.Title)
				return nil
			}
			return fmt.Errorf("statistic %d not found on page %d of %q", id, page, term)
		},
	}
	cmd.Flags().StringVar(&term, "term", "", "search term whose results contain the statistic")
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page index")
	cmd.Flags().BoolVar(&realAPI, "real-api", false, "use the remote search API")
	_ = cmd.MarkFlagRequired("term")
	return cmd
}

func newFavoritesRemoveCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove every saved favorite with the given id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env, err := app.Setup(root.config, version)
			if err != nil {
				return err
			}
			defer func() { _ = env.Close() }()

			if err := env.Favorites.Remove(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d\n", id)
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", raw, err)
	}
	return id, nil
}
