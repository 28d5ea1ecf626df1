package drawer

import (
	"time"

	"github.com/askiada/minimage/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a chain plan.
type Drawer interface {
	// Reset drops every step and link.
	Reset()
	// AddStep adds a step to the drawer.
	AddStep(stepName string) error
	// AddLink adds a link between parent and child steps.
	AddLink(parentStepName, childStepName string) error
	// Draw writes the graph.
	Draw() error
	// SetTotalTime labels the step with the run's total time.
	SetTotalTime(stepName string, total time.Duration) error
	// AddMeasure labels and colours the steps with their measured durations.
	AddMeasure(measure measure.Measure) error
}
