package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/minimage/internal/config"
	"github.com/askiada/minimage/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootFlags struct {
	config   string
	saveDir  string
	logLevel string
}

// app carries the settings shared by every command.
type app struct {
	cfg     *config.Config
	logFile io.Closer
	flags   rootFlags
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "minimage",
		Short: "Generate and process images through a chain of stages",
		Long: "minimage runs a chain of image stages, one generating stage followed by any number of processing\n" +
			"stages, on many images concurrently and saves the results as JPEG files.",
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
		RunE: a.runShell,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.flags.config, "config", "minimage.yaml", "Path to the YAML config file")
	f.StringVar(&a.flags.saveDir, "save-dir", "", "Directory or afs URL images are saved into (overrides config)")
	f.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	root.AddCommand(
		newShellCmd(a),
		newRunCmd(a),
		newPlanCmd(a),
		newHistoryCmd(a),
		newVersionCmd(),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.flags.config)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("save-dir") {
		cfg.SaveDir = a.flags.saveDir
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.flags.logLevel
	}

	err = cfg.Validate()
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.ErrOrStderr()

	if cfg.Log.File != "" {
		file, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return errors.Wrapf(err, "unable to open log file %s", cfg.Log.File)
		}

		a.logFile = file
		w = file
	}

	logging.Init(level, cfg.Log.Format, w)

	a.cfg = cfg

	return nil
}

func (a *app) close() error {
	if a.logFile == nil {
		return nil
	}

	err := a.logFile.Close()
	a.logFile = nil

	if err != nil {
		return errors.Wrap(err, "unable to close log file")
	}

	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the minimage version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "minimage "+version)
		},
	}
}
