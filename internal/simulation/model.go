package simulation

import (
	"time"

	"github.com/planwise/staffing-forecast/pkg/forecast"
	"github.com/planwise/staffing-forecast/pkg/params"
)

// StaffingPoint pairs one forecast bucket with its required agent count.
type StaffingPoint struct {
	Timestamp      time.Time `json:"timestamp"`
	RequiredAgents int       `json:"requiredAgents"`
}

// Metrics aggregates one scenario's forecast and staffing curves.
type Metrics struct {
	ExpectedVolume float64 `json:"expectedVolume"`
	PeakVolume     float64 `json:"peakVolume"`
	RequiredAgents int     `json:"requiredAgents"`
	CostImpact     float64 `json:"costImpact"`
	ServiceLevel   float64 `json:"serviceLevel"`
	Efficiency     float64 `json:"efficiency"`
}

// ScenarioResult is the immutable product of one simulation. The parameter
// snapshot is a deep copy; mutating the working set afterwards does not
// change the result. Re-running the same set produces a new result with a
// new ID.
type ScenarioResult struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	CreatedAt   time.Time          `json:"createdAt"`
	Parameters  []params.Parameter `json:"parameters"`
	Forecast    []forecast.Point   `json:"forecast"`
	Staffing    []StaffingPoint    `json:"staffing"`
	Metrics     Metrics            `json:"metrics"`
	SkillAgents map[string]float64 `json:"skillAgents,omitempty"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// SkillGroup defines one named skill bucket in the resource model.
type SkillGroup struct {
	Name               string  `json:"name" yaml:"name"`
	WeightPercent      float64 `json:"weightPercent" yaml:"weightPercent"`
	CoverageMinimum    int     `json:"coverageMinimum" yaml:"coverageMinimum"`
	MaxConsecutiveDays int     `json:"maxConsecutiveDays" yaml:"maxConsecutiveDays"`
	MinRestHours       int     `json:"minRestHours" yaml:"minRestHours"`
}

// ResourceAllocationModel is the read-only skill capacity summary supplied by
// external configuration. The core never mutates it.
type ResourceAllocationModel struct {
	Skills []SkillGroup `json:"skills" yaml:"skills"`
}

// Weights returns the skill weight map used for distribution.
func (m *ResourceAllocationModel) Weights() map[string]float64 {
	weights := make(map[string]float64, len(m.Skills))
	for _, s := range m.Skills {
		weights[s.Name] = s.WeightPercent
	}
	return weights
}
