package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/statview/internal/config"
	"github.com/five82/statview/internal/logging"
)

func newLogsCmd(root *rootFlags) *cobra.Command {
	var (
		lines   int
		session string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the newest log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.config)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			path, err := logging.Latest(cfg.LogDir)
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "No logs in %s\n", cfg.LogDir)
				return nil
			}
			out, err := logging.Tail(path, lines, session)
			if err != nil {
				return err
			}
			for _, line := range out {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines, 0 for all")
	cmd.Flags().StringVar(&session, "session", "", "only lines from this session id")
	return cmd
}
