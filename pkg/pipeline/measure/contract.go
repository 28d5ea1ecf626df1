package measure

import "time"

// Measure keeps one Metric per stage.
type Measure interface {
	Reset()
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the time images spent in a stage.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AVGDuration() time.Duration
	Count() int64
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
