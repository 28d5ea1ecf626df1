package model

import (
	"fmt"

	"github.com/askiada/minimage/pkg/chain"
)

// StageInfo describes one stage of a plan.
type StageInfo struct {
	Tag   chain.Tag
	Name  string
	Index int
}

var (
	StartStage = &StageInfo{Name: "start", Index: -1}
	EndStage   = &StageInfo{Name: "end", Index: -1}
)

// NewStageInfo names the stage after its position and text so that repeated stages stay distinct.
func NewStageInfo(index int, stage chain.Stage) *StageInfo {
	return &StageInfo{
		Tag:   stage.Tag,
		Name:  fmt.Sprintf("%d. %s", index+1, stage.Text),
		Index: index,
	}
}

// StageInfos describes every stage of plan in order.
func StageInfos(plan *chain.Plan) []*StageInfo {
	infos := make([]*StageInfo, len(plan.Stages))
	for i, stage := range plan.Stages {
		infos[i] = NewStageInfo(i, stage)
	}

	return infos
}
