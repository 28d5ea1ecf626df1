package gateway

import "github.com/pkg/errors"

var (
	ErrRoutineMustBeSet = errors.New("routine must be set")
	ErrImageMustBeSet   = errors.New("image must be set")
	ErrInvalidSize      = errors.New("width and height must be greater than 0")
	ErrInvalidBlur      = errors.New("blur dimensions must be greater than 0")
	ErrInvalidCircles   = errors.New("number of circles must be greater than 0")
	ErrInvalidRadius    = errors.New("radius must be positive and fit within the image")
	ErrInvalidGamma     = errors.New("gamma must be greater than 0")
)
