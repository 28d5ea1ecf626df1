package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/minimage/internal/format"
	"github.com/askiada/minimage/internal/history"
)

var ErrHistoryDisabled = errors.New("history is disabled, set history_db in the config")

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit    int
		markdown bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the recorded runs, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.HistoryDB == "" {
				return ErrHistoryDisabled
			}

			journal, err := history.Open(cmd.Context(), a.cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer journal.Close() //nolint:errcheck

			runs, err := journal.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")

				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), format.History(mode(markdown), runs))
			fmt.Fprintln(cmd.OutOrStdout())

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list, 0 for all")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print the runs as a Markdown table")

	return cmd
}
