package pipeline

import (
	"github.com/pkg/errors"
)

var (
	ErrPlanMustBeSet       = errors.New("plan must be set")
	ErrImageNotInitialized = errors.New("image is not initialized")
	ErrUnknownStage        = errors.New("no executor for stage")
	ErrArgsMismatch        = errors.New("stage arguments do not match the stage")
	ErrStagePanic          = errors.New("stage panicked")
	ErrLoaderMustBeSet     = errors.New("loader must be set to use Input")
)
