// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics exports search pipeline activity as Prometheus metrics.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/quarry/core"
	"github.com/poiesic/quarry/search"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quarry"

// Monitor is a search.Monitor that records Prometheus metrics.
type Monitor struct {
	searches   *prometheus.CounterVec
	empty      *prometheus.CounterVec
	failures   prometheus.Counter
	degraded   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	candidates prometheus.Histogram
	results    *prometheus.HistogramVec
}

var _ search.Monitor = (*Monitor)(nil)

// New creates a Monitor and registers its collectors with reg.
// Collectors already registered by another Monitor are reused.
func New(reg prometheus.Registerer) (*Monitor, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Monitor{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total searches by intent mode.",
		}, []string{"mode"}),
		empty: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "empty_results_total",
			Help:      "Searches that returned no items, by intent mode.",
		}, []string{"mode"}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "failures_total",
			Help:      "Searches aborted by a store or context error.",
		}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "degraded_total",
			Help:      "Recovered strategy panics by pipeline stage.",
		}, []string{"stage"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Search duration in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"mode"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "candidates",
			Help:      "Documents that passed the filter stage.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		results: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "results",
			Help:      "Items returned per search.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		}, []string{"mode"}),
	}

	if err := registerOrReuse(reg, &m.searches); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.empty); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.failures); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.degraded); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.candidates); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.results); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("%w: %T", ErrIncompatibleCollector, are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("register metric: %w", err)
	}
	return nil
}

// Start implements search.Monitor.
func (m *Monitor) Start(_ core.Query) {}

// Classified implements search.Monitor.
func (m *Monitor) Classified(_ core.Mode, _ bool) {}

// Filtered records the candidate count.
func (m *Monitor) Filtered(_, candidates int) {
	m.candidates.Observe(float64(candidates))
}

// Scored implements search.Monitor.
func (m *Monitor) Scored(_, _ int) {}

// Degraded counts a recovered strategy panic.
func (m *Monitor) Degraded(stage search.Stage, _ any) {
	m.degraded.WithLabelValues(string(stage)).Inc()
}

// Failed counts an aborted search.
func (m *Monitor) Failed(_ error) {
	m.failures.Inc()
}

// Finish records the outcome of a completed search.
func (m *Monitor) Finish(mode core.Mode, results int, elapsed time.Duration) {
	label := mode.String()
	m.searches.WithLabelValues(label).Inc()
	m.duration.WithLabelValues(label).Observe(elapsed.Seconds())
	m.results.WithLabelValues(label).Observe(float64(results))
	if results == 0 {
		m.empty.WithLabelValues(label).Inc()
	}
}
