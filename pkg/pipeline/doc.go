// Package pipeline runs a validated command chain against a batch of images.
//
// The Orchestrator starts one goroutine per image. Each of them walks the stages of the plan in order, owning its
// image exclusively, and reports its progress to a shared Reporter. A failing stage aborts only the image it runs
// for: its siblings keep going and the failure is recorded in the Outcome.
//
// Cancellation is cooperative and driven by the context given to Run. Every image checks it before each stage and
// the gateway checks it every time a routine reports progress. A stage cut short by cancellation still counts as
// finished, the image then stops before its next stage. A cancelled run is never saved.
//
// Options implementing model.PipelineOption, such as measure.PipelineMeasure and drawer.PipelineDrawer, observe the
// run: they are told about every stage before the images start and about every stage an image finishes.
package pipeline
