package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/askiada/minimage/internal/format"
	"github.com/askiada/minimage/pkg/imageio"
	"github.com/askiada/minimage/pkg/pipeline/drawer"
	"github.com/askiada/minimage/pkg/pipeline/measure"
	"github.com/askiada/minimage/pkg/pipeline/model"
)

var ErrNotSaved = errors.New("chain did not complete, nothing was saved")

type runFlags struct {
	dot      string
	markdown bool
}

func newRunCmd(a *app) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <chain>",
		Short: "Run one chain and save its images",
		Example: `  minimage run "Generate 3 640 480 | Blur 5 5 | Output demo"
  minimage run Generate 1 64 64 '|' GammaCorrection 2.2 --dot timings.dot`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, strings.Join(args, " "), flags)
		},
	}

	cmd.Flags().StringVar(&flags.dot, "dot", "", "Write the stage graph with measured timings to this file or afs URL")
	cmd.Flags().BoolVar(&flags.markdown, "markdown", false, "Print the summary as a Markdown table")

	return cmd
}

func (a *app) run(cmd *cobra.Command, text string, flags runFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var (
		hooks []model.PipelineOption
		graph bytes.Buffer
	)

	if flags.dot != "" {
		msr := measure.NewDefaultMeasure()
		hooks = append(hooks, measure.PipelineMeasure(msr), drawer.PipelineDrawer(drawer.NewDOTDrawer(&graph), msr))
	}

	s, err := a.newSession(ctx, out, hooks...)
	if err != nil {
		return err
	}
	defer s.close() //nolint:errcheck

	saved, err := s.proc.Process(ctx, text)
	if err != nil {
		return err
	}

	if last := s.proc.LastOutcome(); last != nil {
		fmt.Fprint(out, format.Outcome(mode(flags.markdown), last))
		fmt.Fprintln(out)
	}

	if flags.dot != "" && graph.Len() > 0 {
		err = writeDOT(cmd, flags.dot, &graph)
		if err != nil {
			return err
		}
	}

	if !saved {
		return ErrNotSaved
	}

	return nil
}

func writeDOT(cmd *cobra.Command, dest string, graph *bytes.Buffer) error {
	location, err := imageio.Resolve(dest)
	if err != nil {
		return err
	}

	err = afs.New().Upload(cmd.Context(), location, 0o644, graph)
	if err != nil {
		return errors.Wrapf(err, "unable to write %s", location)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Graph written to %s\n", location)

	return nil
}

func mode(markdown bool) format.Mode {
	if markdown {
		return format.Markdown
	}

	return format.ASCII
}
