// Package processor turns one line of user input into a session command or a run of the command chain it contains.
package processor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/viant/afs"

	"github.com/askiada/minimage/internal/logging"
	"github.com/askiada/minimage/pkg/chain"
	"github.com/askiada/minimage/pkg/imageio"
	"github.com/askiada/minimage/pkg/pipeline"
)

const (
	helpCommand       = "Help"
	changePathCommand = "ChangePath"
)

var (
	ErrRunnerMustBeSet   = errors.New("runner must be set")
	ErrInvalidChangePath = errors.New("invalid syntax, use: " + chain.ChangePathUsage)
)

// Runner runs a validated plan. *pipeline.Orchestrator satisfies it.
type Runner interface {
	Run(ctx context.Context, plan *chain.Plan) (*pipeline.Outcome, error)
}

type Saver interface {
	Save(ctx context.Context, dir string, images []*pipeline.ImageState) ([]string, error)
}

type Journal interface {
	Record(ctx context.Context, out *pipeline.Outcome) error
}

// DirSetter is told when the save directory moves. *imageio.Loader satisfies it.
type DirSetter interface {
	SetDir(dir string)
}

// Processor handles the lines of a session. Lines must be processed one at a time.
type Processor struct {
	runner     Runner
	saver      Saver
	journal    Journal
	fs         afs.Service
	out        io.Writer
	logger     *slog.Logger
	last       *pipeline.Outcome
	saveDir    string
	dirSetters []DirSetter
	limits     chain.Limits
	mu         sync.RWMutex
}

type Option func(p *Processor)

func WithSaver(saver Saver) Option {
	return func(p *Processor) {
		p.saver = saver
	}
}

// WithJournal records every run. Recording failures are logged, never returned.
func WithJournal(journal Journal) Option {
	return func(p *Processor) {
		p.journal = journal
	}
}

// WithOutput sets where the user facing messages are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Processor) {
		p.out = w
	}
}

func WithService(fs afs.Service) Option {
	return func(p *Processor) {
		p.fs = fs
	}
}

// WithSaveDir sets the initial save directory.
func WithSaveDir(dir string) Option {
	return func(p *Processor) {
		p.saveDir = dir
	}
}

// WithDirSetter registers a collaborator following the save directory.
func WithDirSetter(ds DirSetter) Option {
	return func(p *Processor) {
		p.dirSetters = append(p.dirSetters, ds)
	}
}

// WithLimits bounds the images a chain may generate. Defaults to chain.DefaultLimits.
func WithLimits(limits chain.Limits) Option {
	return func(p *Processor) {
		p.limits = limits
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// New creates a processor running plans with runner.
func New(runner Runner, opts ...Option) (*Processor, error) {
	if runner == nil {
		return nil, ErrRunnerMustBeSet
	}

	proc := &Processor{
		runner:  runner,
		out:     os.Stdout,
		saveDir: ".",
		limits:  chain.DefaultLimits,
	}

	for _, opt := range opts {
		opt(proc)
	}

	if proc.fs == nil {
		proc.fs = afs.New()
	}

	if proc.logger == nil {
		proc.logger = logging.New("processor")
	}

	return proc, nil
}

// SaveDir returns the directory images are saved into.
func (p *Processor) SaveDir() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.saveDir
}

// LastOutcome returns the outcome of the last run, or nil.
func (p *Processor) LastOutcome() *pipeline.Outcome {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.last
}

// Process handles one line. It returns true only when a chain ran to completion and its images were saved.
// Validation failures are returned as a *chain.ValidationError.
func (p *Processor) Process(ctx context.Context, line string) (bool, error) {
	if ctx.Err() != nil {
		fmt.Fprintln(p.out, "Operation canceled by user.")

		return false, nil
	}

	trimmed := strings.TrimSpace(line)

	if trimmed == helpCommand {
		fmt.Fprint(p.out, chain.Help())

		return false, nil
	}

	if rest, ok := strings.CutPrefix(trimmed, changePathCommand); ok && !strings.Contains(trimmed, "|") &&
		(rest == "" || rest[0] == ' ' || rest[0] == '\t') {
		return false, p.changePath(ctx, rest)
	}

	plan, err := chain.ValidateWithLimits(line, p.limits)
	if err != nil {
		if errors.Is(err, chain.ErrHelpRequested) {
			fmt.Fprint(p.out, chain.Help())

			return false, nil
		}

		fmt.Fprintf(p.out, "Error: Invalid command chain: %v\n", err)

		return false, err
	}

	return p.run(ctx, plan)
}

func (p *Processor) run(ctx context.Context, plan *chain.Plan) (bool, error) {
	out, err := p.runner.Run(ctx, plan)
	if err != nil {
		return false, errors.Wrap(err, "unable to run chain")
	}

	p.mu.Lock()
	p.last = out
	p.mu.Unlock()

	for _, res := range out.Results {
		if res.Status != pipeline.StatusAborted {
			continue
		}

		command := ""
		if res.StageIndex >= 0 && res.StageIndex < len(plan.Stages) {
			command = plan.Stages[res.StageIndex].Text
		}

		fmt.Fprintf(p.out, "Error processing command: %s for Image %d: %v\n", command, res.ID, res.Err)
	}

	if p.journal != nil {
		err = p.journal.Record(ctx, out)
		if err != nil {
			p.logger.Warn("unable to record run", slog.String("run", out.ID.String()), slog.Any("error", err))
		}
	}

	if !out.Save {
		fmt.Fprintln(p.out, "Command processing canceled.")

		return false, nil
	}

	if p.saver == nil {
		return true, nil
	}

	_, err = p.saver.Save(ctx, p.SaveDir(), out.Images())
	if err != nil {
		return false, errors.Wrap(err, "unable to save images")
	}

	return true, nil
}

func (p *Processor) changePath(ctx context.Context, arg string) error {
	dir := strings.Trim(strings.TrimSpace(arg), `"`)
	if dir == "" {
		fmt.Fprintln(p.out, "Invalid syntax. Use: "+chain.ChangePathUsage)

		return ErrInvalidChangePath
	}

	ok, err := imageio.DirExists(ctx, p.fs, dir)
	if err != nil {
		return errors.Wrapf(err, "unable to check %s", dir)
	}

	if !ok {
		fmt.Fprintln(p.out, "Directory does not exist, aborting...")

		return nil
	}

	p.mu.Lock()
	p.saveDir = dir
	p.mu.Unlock()

	for _, ds := range p.dirSetters {
		ds.SetDir(dir)
	}

	fmt.Fprintln(p.out, "New path set")

	return nil
}
