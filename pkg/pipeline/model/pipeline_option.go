package model

import "time"

// PipelineOption defines the hooks an option receives during a run.
type PipelineOption interface {
	// New runs before any stage of a run is prepared.
	New() error
	// PrepareStage runs once per stage, in chain order, before the images are processed. parentStage is the stage
	// before it, StartStage for the first one.
	PrepareStage(parentStage, stage *StageInfo) error
	// OnStageOutput runs every time an image finishes a stage. It can be called concurrently.
	OnStageOutput(stage *StageInfo, imageID int, elapsed time.Duration) error
	// Finish runs after every image reached a terminal state.
	Finish(total time.Duration) error
}
