package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/minimage/internal/logging"
	"github.com/askiada/minimage/internal/processor"
	"github.com/askiada/minimage/pkg/chain"
)

// cancelKey typed alone on a line cancels the session, during a run or at the prompt.
const cancelKey = "x"

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session, one chain per line",
		Args:  cobra.NoArgs,
		RunE:  a.runShell,
	}
}

func (a *app) runShell(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	out := cmd.OutOrStdout()

	s, err := a.newSession(ctx, out)
	if err != nil {
		return err
	}
	defer s.close() //nolint:errcheck

	sh := &shell{
		proc:   s.proc,
		out:    out,
		cancel: cancel,
		lines:  readLines(ctx, cmd.InOrStdin()),
		logger: logging.New("shell"),
	}
	sh.loop(ctx)

	return nil
}

// shell reads one chain per line. Lines typed while a chain runs are queued, except the cancel key which is handled
// as soon as it is read.
type shell struct {
	proc    *processor.Processor
	out     io.Writer
	cancel  context.CancelFunc
	lines   <-chan string
	logger  *slog.Logger
	pending []string
}

type processed struct {
	err error
	ok  bool
}

func (sh *shell) loop(ctx context.Context) {
	defer fmt.Fprintln(sh.out, "Program terminated.")

	for ctx.Err() == nil {
		fmt.Fprintln(sh.out, `Type "Help" to list available options`)
		fmt.Fprintln(sh.out, "Enter command:")

		line, more := sh.next(ctx)
		if !more || sh.cancelRequested(line) {
			return
		}

		done := make(chan processed, 1)

		go func() {
			ok, err := sh.proc.Process(ctx, line)
			done <- processed{ok: ok, err: err}
		}()

		sh.wait(done)
	}
}

// next returns the next line, false once the input is exhausted or the session is cancelled.
func (sh *shell) next(ctx context.Context) (string, bool) {
	if len(sh.pending) > 0 {
		line := sh.pending[0]
		sh.pending = sh.pending[1:]

		return line, true
	}

	if sh.lines == nil {
		return "", false
	}

	select {
	case <-ctx.Done():
		return "", false
	case line, open := <-sh.lines:
		if !open {
			sh.lines = nil
		}

		return line, open
	}
}

// wait blocks until the line is processed.
func (sh *shell) wait(done <-chan processed) {
	for {
		select {
		case res := <-done:
			sh.report(res)

			return
		case line, open := <-sh.lines:
			if !open {
				sh.lines = nil

				continue
			}

			if !sh.cancelRequested(line) {
				sh.logger.Debug("queueing input while a chain runs", slog.String("line", line))
				sh.pending = append(sh.pending, line)
			}
		}
	}
}

func (sh *shell) cancelRequested(line string) bool {
	if strings.TrimSpace(line) != cancelKey {
		return false
	}

	fmt.Fprintln(sh.out, "Exit execution requested!")
	sh.cancel()

	return true
}

func (sh *shell) report(res processed) {
	if res.err == nil {
		return
	}

	var vErr *chain.ValidationError
	if errors.As(res.err, &vErr) || errors.Is(res.err, processor.ErrInvalidChangePath) {
		return
	}

	sh.logger.Error("command failed", slog.Any("error", res.err))
	fmt.Fprintf(sh.out, "Error: %v\n", res.err)
}

func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	return lines
}
