package format

import (
	"fmt"
	"time"

	"github.com/askiada/minimage/internal/history"
	"github.com/askiada/minimage/pkg/chain"
	"github.com/askiada/minimage/pkg/pipeline"
)

const chainWidth = 48

// Plan lists the stages every image of plan goes through.
func Plan(m Mode, plan *chain.Plan) string {
	tb := NewTable(m)
	tb.Header("#", "Stage", "Command")
	tb.Columns(ColumnConfig{Number: 1, Align: AlignRight})

	for i, stage := range plan.Stages {
		tb.Row(i+1, string(stage.Tag), stage.Text)
	}

	tb.Footer("", "Images", plan.ImageCount())

	return tb.String()
}

// Outcome summarises a run, one row per image.
func Outcome(m Mode, out *pipeline.Outcome) string {
	tb := NewTable(m)
	tb.Header("Image", "Status", "Stage", "Error")
	tb.Columns(
		ColumnConfig{Number: 1, Align: AlignRight},
		ColumnConfig{Number: 3, Align: AlignRight},
		ColumnConfig{Number: 4, MaxWidth: chainWidth},
	)

	for _, res := range out.Results {
		reason := ""
		if res.Err != nil {
			reason = res.Err.Error()
		}

		tb.Row(res.ID+1, res.Status.String(), res.StageIndex, reason)
	}

	tb.Footer("", fmt.Sprintf("%d/%d completed", out.Completed(), len(out.Results)), "", Duration(out.Duration))

	return tb.String()
}

// History lists journal entries.
func History(m Mode, runs []history.Run) string {
	tb := NewTable(m)
	tb.Header("Run", "Started", "Chain", "Images", "Completed", "Aborted", "Cancelled", "Saved", "Duration")
	tb.Columns(
		ColumnConfig{Number: 3, MaxWidth: chainWidth},
		ColumnConfig{Number: 4, Align: AlignRight},
		ColumnConfig{Number: 5, Align: AlignRight},
		ColumnConfig{Number: 6, Align: AlignRight},
		ColumnConfig{Number: 7, Align: AlignRight},
	)

	for _, run := range runs {
		tb.Row(
			run.ID.String()[:8],
			run.StartedAt.Local().Format(time.DateTime),
			Truncate(run.Chain, chainWidth),
			run.Images,
			run.Completed,
			run.Aborted,
			run.Cancelled,
			BoolMark(run.Saved),
			Duration(run.Duration),
		)
	}

	return tb.String()
}

// Duration formats d as "Xm Ys", "Ys" or "Xms" for short runs.
func Duration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	s := int(d.Seconds())
	if s >= 60 {
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	}

	return fmt.Sprintf("%ds", s)
}

// Truncate shortens s to maxLen bytes, ending with "..." when it had to cut.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}

func BoolMark(v bool) string {
	if v {
		return "yes"
	}

	return "no"
}
