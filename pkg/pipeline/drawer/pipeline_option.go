package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/minimage/pkg/chain"
	"github.com/askiada/minimage/pkg/pipeline/measure"
	"github.com/askiada/minimage/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m    measure.Measure
	last *model.StageInfo
}

func (pd *pipelineDrawer) New() error {
	pd.Reset()
	pd.last = model.StartStage

	err := pd.AddStep(model.StartStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start step to drawer")
	}

	err = pd.AddStep(model.EndStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end step to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) PrepareStage(parentStage, stage *model.StageInfo) error {
	err := pd.AddStep(stage.Name)
	if err != nil {
		return err
	}

	err = pd.AddLink(parentStage.Name, stage.Name)
	if err != nil {
		return err
	}

	pd.last = stage

	return nil
}

func (pd *pipelineDrawer) OnStageOutput(*model.StageInfo, int, time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) Finish(total time.Duration) error {
	err := pd.AddLink(pd.last.Name, model.EndStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to link end step")
	}

	if total > 0 {
		err = pd.SetTotalTime(model.EndStage.Name, total)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}
	}

	if pd.m != nil {
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err = pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the plan of every run. When measure is not nil the graph carries the measured durations.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: measure}
}

// DrawPlan draws plan without running it.
func DrawPlan(drawer Drawer, plan *chain.Plan) error {
	opt := PipelineDrawer(drawer, nil)

	err := opt.New()
	if err != nil {
		return err
	}

	parent := model.StartStage
	for _, info := range model.StageInfos(plan) {
		err = opt.PrepareStage(parent, info)
		if err != nil {
			return err
		}

		parent = info
	}

	return opt.Finish(0)
}
