package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/minimage/internal/logging"
	"github.com/askiada/minimage/pkg/chain"
	"github.com/askiada/minimage/pkg/gateway"
	"github.com/askiada/minimage/pkg/gateway/native"
	"github.com/askiada/minimage/pkg/pipeline/model"
	"github.com/askiada/minimage/pkg/progress"
)

// Reporter receives the progress of every image of a run.
type Reporter interface {
	Start(workers, stageCount int)
	SubProgress(id, subPercent int, message string)
	StageFinished(id int)
}

// Loader loads the image named by an Input stage.
type Loader interface {
	Load(ctx context.Context, name string) (*image.RGBA, error)
}

// Orchestrator runs plans. Runs must not overlap: the processor runs one plan at a time.
type Orchestrator struct {
	gateway  *gateway.Gateway
	loader   Loader
	reporter Reporter
	logger   *slog.Logger
	hooks    []model.PipelineOption
}

// New creates an orchestrator. Without options it computes with the native routines and discards progress.
func New(opts ...Option) (*Orchestrator, error) {
	orch := &Orchestrator{}

	for _, opt := range opts {
		opt(orch)
	}

	if orch.gateway == nil {
		gw, err := gateway.New(native.New())
		if err != nil {
			return nil, errors.Wrap(err, "unable to create gateway")
		}

		orch.gateway = gw
	}

	if orch.reporter == nil {
		orch.reporter = progress.New(progress.WithWriter(io.Discard))
	}

	if orch.logger == nil {
		orch.logger = logging.New("pipeline")
	}

	return orch, nil
}

// Run processes every image of plan and waits until all of them reached a terminal state. Stage failures are not
// returned, they are recorded in the Outcome.
func (o *Orchestrator) Run(ctx context.Context, plan *chain.Plan) (*Outcome, error) {
	if plan == nil {
		return nil, ErrPlanMustBeSet
	}

	count := plan.ImageCount()
	out := &Outcome{
		ID:        uuid.New(),
		Plan:      plan,
		StartedAt: time.Now(),
		Results:   make([]ImageResult, count),
	}

	for id := range out.Results {
		out.Results[id] = ImageResult{ID: id, Status: StatusPending, State: &ImageState{ID: id}}
	}

	if ctx.Err() != nil {
		for id := range out.Results {
			out.Results[id].Status = StatusCancelled
		}

		out.Duration = time.Since(out.StartedAt)

		return out, nil
	}

	o.reporter.Start(count, plan.StageCount())

	stages, err := o.prepare(plan)
	if err != nil {
		return nil, err
	}

	logger := o.logger.With(slog.String("run", out.ID.String()))
	logger.Info("run started", slog.String("chain", plan.String()), slog.Int("images", count))

	var g errgroup.Group

	for id := range out.Results {
		g.Go(func() error {
			out.Results[id] = o.runImage(ctx, logger, stages, plan, out.Results[id].State)

			return nil
		})
	}

	_ = g.Wait()

	out.Duration = time.Since(out.StartedAt)
	out.Save = ctx.Err() == nil

	logger.Info("run finished",
		slog.Duration("duration", out.Duration),
		slog.Int("completed", out.Completed()),
		slog.Int("aborted", out.Aborted()),
		slog.Int("cancelled", out.Cancelled()),
	)

	for _, hook := range o.hooks {
		err := hook.Finish(out.Duration)
		if err != nil {
			return out, errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return out, nil
}

func (o *Orchestrator) prepare(plan *chain.Plan) ([]*model.StageInfo, error) {
	stages := model.StageInfos(plan)

	for _, hook := range o.hooks {
		err := hook.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}

		parent := model.StartStage
		for _, stage := range stages {
			err := hook.PrepareStage(parent, stage)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to prepare stage %s", stage.Name)
			}

			parent = stage
		}
	}

	return stages, nil
}

// imageRun is what the executors see of the run of one image.
type imageRun struct {
	gateway  *gateway.Gateway
	loader   Loader
	reporter Reporter
	state    *ImageState
}

func (r *imageRun) report(percent int, message string) {
	r.reporter.SubProgress(r.state.ID, percent, message)
}

func (r *imageRun) progress(message string) gateway.Reporter {
	return func(percent int) {
		r.report(percent, message)
	}
}

func (o *Orchestrator) runImage(
	ctx context.Context,
	logger *slog.Logger,
	stages []*model.StageInfo,
	plan *chain.Plan,
	state *ImageState,
) ImageResult {
	res := ImageResult{ID: state.ID, Status: StatusRunning, State: state}
	run := &imageRun{gateway: o.gateway, loader: o.loader, reporter: o.reporter, state: state}
	logger = logger.With(slog.Int("image", state.ID+1))

	for index, stage := range plan.Stages {
		res.StageIndex = index

		if ctx.Err() != nil {
			res.Status = StatusCancelled

			return res
		}

		start := time.Now()

		err := o.runStage(ctx, run, stage)
		if err != nil {
			if ctx.Err() != nil {
				res.Status = StatusCancelled

				return res
			}

			res.Status = StatusAborted
			res.Err = errors.Wrapf(err, "stage %d (%s)", index+1, stage.Tag)
			logger.Warn("image aborted", slog.String("stage", stages[index].Name), slog.Any("error", err))

			return res
		}

		elapsed := time.Since(start)
		logger.Debug("stage finished", slog.String("stage", stages[index].Name), slog.Duration("elapsed", elapsed))

		for _, hook := range o.hooks {
			err := hook.OnStageOutput(stages[index], state.ID, elapsed)
			if err != nil {
				logger.Warn("pipeline option failed", slog.String("stage", stages[index].Name), slog.Any("error", err))
			}
		}

		o.reporter.StageFinished(state.ID)
	}

	res.StageIndex = len(plan.Stages)
	res.Status = StatusCompleted

	return res
}

func (o *Orchestrator) runStage(ctx context.Context, run *imageRun, stage chain.Stage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrap(ErrStagePanic, fmt.Sprint(r))
		}
	}()

	exec, ok := executors[stage.Tag]
	if !ok {
		return errors.Wrapf(ErrUnknownStage, "%q", stage.Tag)
	}

	if !stage.Generating() && run.state.Image == nil {
		return ErrImageNotInitialized
	}

	if stage.Tag == chain.TagInput && run.loader == nil {
		return ErrLoaderMustBeSet
	}

	return exec(ctx, run, stage.Args)
}
