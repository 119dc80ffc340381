// Package compare computes relative differences between scenario results,
// guarding every ratio against zero baselines.
package compare

import (
	"math"

	"github.com/planwise/staffing-forecast/internal/simulation"
	"github.com/planwise/staffing-forecast/pkg/constants"
	"github.com/planwise/staffing-forecast/pkg/mathutil"
)

// MetricDelta is the difference for one metric. ImprovementPercent is only
// meaningful when Defined is true; a zero baseline makes the relative change
// undefined rather than infinite.
type MetricDelta struct {
	Metric             string  `json:"metric"`
	Baseline           float64 `json:"baseline"`
	Candidate          float64 `json:"candidate"`
	Delta              float64 `json:"delta"`
	ImprovementPercent float64 `json:"improvementPercent"`
	Defined            bool    `json:"defined"`
}

// Result is the full comparison between two scenario results.
type Result struct {
	BaselineID  string        `json:"baselineId"`
	CandidateID string        `json:"candidateId"`
	Deltas      []MetricDelta `json:"deltas"`
}

// Delta returns the entry for a metric name, if present.
func (r Result) Delta(metric string) (MetricDelta, bool) {
	for _, d := range r.Deltas {
		if d.Metric == metric {
			return d, true
		}
	}
	return MetricDelta{}, false
}

// Compare diffs candidate b against baseline a metric by metric. Comparing a
// result against itself yields zero deltas and 0% improvement everywhere.
func Compare(a, b simulation.ScenarioResult) Result {
	pairs := []struct {
		name     string
		baseline float64
		cand     float64
	}{
		{"expectedVolume", a.Metrics.ExpectedVolume, b.Metrics.ExpectedVolume},
		{"peakVolume", a.Metrics.PeakVolume, b.Metrics.PeakVolume},
		{"requiredAgents", float64(a.Metrics.RequiredAgents), float64(b.Metrics.RequiredAgents)},
		{"costImpact", a.Metrics.CostImpact, b.Metrics.CostImpact},
		{"serviceLevel", a.Metrics.ServiceLevel, b.Metrics.ServiceLevel},
		{"efficiency", a.Metrics.Efficiency, b.Metrics.Efficiency},
	}

	result := Result{BaselineID: a.ID, CandidateID: b.ID}
	for _, p := range pairs {
		delta := p.cand - p.baseline
		md := MetricDelta{
			Metric:    p.name,
			Baseline:  p.baseline,
			Candidate: p.cand,
			Delta:     delta,
		}
		if !mathutil.IsZero(p.baseline) {
			md.Defined = true
			md.ImprovementPercent = delta / math.Abs(p.baseline) * constants.PercentageMultiplier
		}
		result.Deltas = append(result.Deltas, md)
	}
	return result
}

// ROIResult reports return on investment for a scenario change. Fields are
// only meaningful when their availability flag is set: a non-positive
// incremental cost makes the ROI ratio undefined, and non-positive annual
// savings make break-even unavailable.
type ROIResult struct {
	ROIPercent         float64 `json:"roiPercent"`
	ROIDefined         bool    `json:"roiDefined"`
	BreakEvenMonths    float64 `json:"breakEvenMonths"`
	BreakEvenAvailable bool    `json:"breakEvenAvailable"`
}

// ROI evaluates moving from a baseline cost to a candidate cost against the
// projected annual savings of the change.
func ROI(costBaseline, costCandidate, annualSavings float64) ROIResult {
	var out ROIResult
	investment := costCandidate - costBaseline
	if !mathutil.IsZero(investment) && investment > 0 {
		out.ROIDefined = true
		out.ROIPercent = (annualSavings - investment) / investment * constants.PercentageMultiplier
	}
	if annualSavings > 0 && investment > 0 {
		out.BreakEvenAvailable = true
		out.BreakEvenMonths = investment / annualSavings * constants.MonthsPerYear
	}
	return out
}
