package measure

import (
	"time"

	"github.com/askiada/minimage/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New() error {
	pm.Reset()
	pm.AddMetric(model.StartStage.Name)
	pm.AddMetric(model.EndStage.Name)

	return nil
}

func (pm *pipelineMeasure) PrepareStage(_, stage *model.StageInfo) error {
	pm.AddMetric(stage.Name)

	return nil
}

func (pm *pipelineMeasure) OnStageOutput(stage *model.StageInfo, _ int, elapsed time.Duration) error {
	mt := pm.GetMetric(stage.Name)
	if mt == nil {
		mt = pm.AddMetric(stage.Name)
	}

	mt.AddDuration(elapsed)

	return nil
}

func (pm *pipelineMeasure) Finish(total time.Duration) error {
	pm.GetMetric(model.EndStage.Name).SetTotalDuration(total)

	return nil
}

// PipelineMeasure records the time every image spends in every stage into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{measure}
}
