// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/planwise/staffing-forecast/internal/simulation"
	"github.com/planwise/staffing-forecast/pkg/forecast"
)

// FindScenario finds a scenario result by name in the results slice.
// Returns nil when absent.
func FindScenario(results []*simulation.ScenarioResult, name string) *simulation.ScenarioResult {
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// FixedSampler returns a variance source that always yields the same draw,
// for deterministic forecasts in tests.
func FixedSampler(value float64) forecast.Sampler {
	return forecast.SamplerFunc(func() float64 { return value })
}
