package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/askiada/minimage/pkg/chain"
)

// Outcome is the result of a run.
type Outcome struct {
	StartedAt time.Time
	Plan      *chain.Plan
	Results   []ImageResult
	Duration  time.Duration
	ID        uuid.UUID
	// Save is false once the run has been cancelled.
	Save bool
}

func (o *Outcome) count(status Status) int {
	n := 0

	for _, res := range o.Results {
		if res.Status == status {
			n++
		}
	}

	return n
}

func (o *Outcome) Completed() int { return o.count(StatusCompleted) }
func (o *Outcome) Aborted() int   { return o.count(StatusAborted) }
func (o *Outcome) Cancelled() int { return o.count(StatusCancelled) }

// Images returns the states of the images worth saving, in id order. Images that were aborted or never produced
// pixels are left out.
func (o *Outcome) Images() []*ImageState {
	images := make([]*ImageState, 0, len(o.Results))

	for _, res := range o.Results {
		if res.Status != StatusCompleted || res.State == nil || res.State.Image == nil {
			continue
		}

		images = append(images, res.State)
	}

	return images
}
