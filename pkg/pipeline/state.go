package pipeline

import "image"

// ImageState is the image one pipeline works on. It is only touched by that pipeline until the run is over.
type ImageState struct {
	// Image is nil until a generating stage ran.
	Image *image.RGBA
	// Prefix is set by the Output stage.
	Prefix string
	ID     int
}

// Status is where an image is in its pipeline.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusCompleted
	StatusAborted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusAborted:
		return "aborted"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no stage will run for the image anymore.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAborted || s == StatusCancelled
}

// ImageResult is the final state of one image.
type ImageResult struct {
	Err   error
	State *ImageState
	// StageIndex is the stage the image stopped at, or the stage count when it completed.
	StageIndex int
	ID         int
	Status     Status
}
