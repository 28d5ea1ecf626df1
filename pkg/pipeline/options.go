package pipeline

import (
	"log/slog"

	"github.com/askiada/minimage/pkg/gateway"
	"github.com/askiada/minimage/pkg/pipeline/model"
)

type Option func(o *Orchestrator)

// WithGateway sets the gateway running the compute stages.
func WithGateway(gw *gateway.Gateway) Option {
	return func(o *Orchestrator) {
		o.gateway = gw
	}
}

// WithLoader sets the loader used by the Input stage.
func WithLoader(loader Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithReporter sets where progress is reported.
func WithReporter(reporter Reporter) Option {
	return func(o *Orchestrator) {
		o.reporter = reporter
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithPipelineOptions registers options observing every run, measure.PipelineMeasure and drawer.PipelineDrawer for
// instance. They are called in the given order.
func WithPipelineOptions(opts ...model.PipelineOption) Option {
	return func(o *Orchestrator) {
		o.hooks = append(o.hooks, opts...)
	}
}
