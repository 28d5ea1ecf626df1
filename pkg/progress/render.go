package progress

import (
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	clearScreen = "\033[H\033[2J"
	cursorHome  = "\033[H"
)

// repaint writes every record. The caller holds the lock.
func (a *Aggregator) repaint() {
	var sb strings.Builder

	if a.clear {
		sb.WriteString(cursorHome)
	}

	fmt.Fprintf(&sb, "Generating %d images...\n", len(a.records))

	for _, rec := range a.sorted() {
		fmt.Fprintf(&sb, " Image: %-10d %s  %s\n", rec.ID+1, Bar(rec.Percent, a.barSize, a.stageCount), rec.Message)
	}

	_, _ = io.WriteString(a.out, sb.String())
}

// Bar renders percent as a bar of size cells with a divider at every stage boundary, followed by the percentage.
func Bar(percent, size, stageCount int) string {
	filled := int(math.Round(float64(percent) / 100 * float64(size)))

	cells := make([]byte, size)
	for i := range cells {
		if i < filled {
			cells[i] = '#'
		} else {
			cells[i] = '-'
		}
	}

	if stageCount > 0 {
		step := size / stageCount
		for i := step; step > 0 && i < size-size%stageCount; i += step {
			cells[i] = '|'
		}
	}

	return fmt.Sprintf("[%s] %d%%", cells, percent)
}
