package measure

import (
	"maps"
	"sync"
)

type DefaultMeasure struct {
	steps map[string]Metric
	mu    sync.RWMutex
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		steps: make(map[string]Metric),
	}
}

// Reset drops every metric.
func (m *DefaultMeasure) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.steps = make(map[string]Metric)
}

func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt := &DefaultMetric{}
	m.steps[name] = mt

	return mt
}

// GetMetric returns nil for unknown names.
func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.steps[name]
}

// AllMetrics returns a copy of the metrics keyed by stage name.
func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return maps.Clone(m.steps)
}

var _ Measure = (*DefaultMeasure)(nil)
