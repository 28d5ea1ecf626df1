package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askiada/minimage/internal/format"
	"github.com/askiada/minimage/pkg/chain"
	"github.com/askiada/minimage/pkg/pipeline/drawer"
)

func newPlanCmd(a *app) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "plan <chain>",
		Short: "Validate a chain and print the stages every image goes through",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := chain.ValidateWithLimits(strings.Join(args, " "), a.cfg.Limits())
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), format.Plan(mode(flags.markdown), plan))
			fmt.Fprintln(cmd.OutOrStdout())

			if flags.dot == "" {
				return nil
			}

			var graph bytes.Buffer

			err = drawer.DrawPlan(drawer.NewDOTDrawer(&graph), plan)
			if err != nil {
				return err
			}

			return writeDOT(cmd, flags.dot, &graph)
		},
	}

	cmd.Flags().StringVar(&flags.dot, "dot", "", "Write the stage graph to this file or afs URL")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "Print the stages as a Markdown table")

	return cmd
}
