package main

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/askiada/minimage/internal/history"
	"github.com/askiada/minimage/internal/logging"
	"github.com/askiada/minimage/internal/processor"
	"github.com/askiada/minimage/pkg/gateway"
	"github.com/askiada/minimage/pkg/gateway/native"
	"github.com/askiada/minimage/pkg/imageio"
	"github.com/askiada/minimage/pkg/pipeline"
	"github.com/askiada/minimage/pkg/pipeline/model"
	"github.com/askiada/minimage/pkg/progress"
)

// session wires a processor and the collaborators it owns.
type session struct {
	proc    *processor.Processor
	journal *history.Journal
}

func (a *app) newSession(ctx context.Context, out io.Writer, hooks ...model.PipelineOption) (*session, error) {
	saveDir, err := imageio.Resolve(a.cfg.SaveDir)
	if err != nil {
		return nil, err
	}

	loader := imageio.NewLoader(saveDir, nil, imageio.WithMaxPixels(a.cfg.MaxPixels))

	gw, err := gateway.New(native.New(), gateway.WithMaxPixels(a.cfg.MaxPixels))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create gateway")
	}

	orch, err := pipeline.New(
		pipeline.WithGateway(gw),
		pipeline.WithLoader(loader),
		pipeline.WithReporter(progress.New(
			progress.WithWriter(out),
			progress.WithBarSize(a.cfg.BarSize),
			progress.WithClear(a.cfg.ClearScreen),
		)),
		pipeline.WithLogger(logging.New("pipeline")),
		pipeline.WithPipelineOptions(hooks...),
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create orchestrator")
	}

	opts := []processor.Option{
		processor.WithOutput(out),
		processor.WithSaveDir(saveDir),
		processor.WithDirSetter(loader),
		processor.WithLimits(a.cfg.Limits()),
		processor.WithSaver(imageio.NewSaver(
			imageio.WithOutput(out),
			imageio.WithQuality(a.cfg.JPEGQuality),
			imageio.WithDefaultPrefix(a.cfg.DefaultPrefix),
		)),
	}

	s := &session{}

	if a.cfg.HistoryDB != "" {
		s.journal, err = history.Open(ctx, a.cfg.HistoryDB)
		if err != nil {
			return nil, err
		}

		opts = append(opts, processor.WithJournal(s.journal))
	}

	s.proc, err = processor.New(orch, opts...)
	if err != nil {
		_ = s.close()

		return nil, errors.Wrap(err, "unable to create processor")
	}

	return s, nil
}

func (s *session) close() error {
	if s.journal == nil {
		return nil
	}

	return s.journal.Close()
}
