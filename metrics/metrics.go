// Package metrics adapts chainbft_demo/libs/metric's MetricItem/MetricSet
// pair onto github.com/rcrowley/go-metrics, so dbft reports gauges and
// timers through a real metrics registry instead of the teacher's
// hand-rolled JSONString interface. mempool accepts a Set through
// SetMetrics but reports nothing to it.
package metrics

import (
	"errors"
	"sync"

	gometrics "github.com/rcrowley/go-metrics"
)

// ErrLabelExist mirrors the teacher's ErrMetricLabelExist.
var ErrLabelExist = errors.New("metrics: label already registered")

// Set is a labeled group of go-metrics instruments, the way MetricSet
// grouped MetricItems. dbft keeps one Set per Context. All instrument
// kinds share one label namespace.
type Set struct {
	mtx      sync.RWMutex
	registry gometrics.Registry
	labels   map[string]bool
}

// NewSet returns an empty set backed by a fresh go-metrics registry.
func NewSet() *Set {
	return &Set{
		registry: gometrics.NewRegistry(),
		labels:   make(map[string]bool),
	}
}

// Registry exposes the underlying go-metrics registry, e.g. for wiring
// into a reporter (log, graphite, statsd).
func (s *Set) Registry() gometrics.Registry { return s.registry }

func (s *Set) reserve(label string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.labels[label] {
		return ErrLabelExist
	}
	s.labels[label] = true
	return nil
}

// Counter registers and returns a new counter under label.
func (s *Set) Counter(label string) (gometrics.Counter, error) {
	if err := s.reserve(label); err != nil {
		return nil, err
	}
	c := gometrics.NewCounter()
	s.registry.Register(label, c)
	return c, nil
}

// Gauge registers and returns a new gauge under label.
func (s *Set) Gauge(label string) (gometrics.Gauge, error) {
	if err := s.reserve(label); err != nil {
		return nil, err
	}
	g := gometrics.NewGauge()
	s.registry.Register(label, g)
	return g, nil
}

// Timer registers and returns a new timer under label.
func (s *Set) Timer(label string) (gometrics.Timer, error) {
	if err := s.reserve(label); err != nil {
		return nil, err
	}
	t := gometrics.NewTimer()
	s.registry.Register(label, t)
	return t, nil
}

// Labels lists every registered instrument name.
func (s *Set) Labels() []string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	out := make([]string, 0, len(s.labels))
	for k := range s.labels {
		out = append(out, k)
	}
	return out
}
