package chain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrEmptyChain         = errors.New("command chain is empty")
	ErrEmptyStage         = errors.New("empty command")
	ErrHelpRequested      = errors.New("help requested")
	ErrMissingGenerator   = errors.New("must begin with a generating command")
	ErrDuplicateGenerator = errors.New("only one generating command is allowed")
	ErrUnknownStage       = errors.New("unknown command")
	ErrInvalidArguments   = errors.New("invalid arguments")
)

// ValidationError is returned by Validate. Stage holds the offending stage text as typed by the user and Index its
// position in the chain (-1 when the error is not tied to a stage).
type ValidationError struct {
	Err   error
	Stage string
	Index int
}

func (e *ValidationError) Error() string {
	if e.Stage == "" {
		return e.Err.Error()
	}

	return fmt.Sprintf("invalid command %q: %v", e.Stage, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(err error, stage string, index int) *ValidationError {
	return &ValidationError{
		Err:   err,
		Stage: stage,
		Index: index,
	}
}
