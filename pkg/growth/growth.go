// Package growth transforms baseline volumes by configurable growth models
// and distributes aggregate growth across skill groups.
package growth

import (
	"fmt"
	"math"

	"github.com/planwise/staffing-forecast/pkg/constants"
	"github.com/planwise/staffing-forecast/pkg/mathutil"
)

// Mode selects how growth is applied to a baseline.
type Mode string

const (
	// ModePercentage compounds the baseline by (1+rate) per period.
	ModePercentage Mode = "percentage"
	// ModeAbsolute adds a fixed value per period.
	ModeAbsolute Mode = "absolute"
)

// Shape selects the trajectory of growth across a projected series.
type Shape string

const (
	ShapeLinear      Shape = "linear"
	ShapeExponential Shape = "exponential"
	ShapeSeasonal    Shape = "seasonal"
)

// Config describes one growth scenario.
type Config struct {
	Mode    Mode    `yaml:"mode"`
	Rate    float64 `yaml:"rate"`    // fractional rate for percentage mode, e.g. 0.05
	Value   float64 `yaml:"value"`   // additive value for absolute mode
	Periods int     `yaml:"periods"` // number of periods to apply
	Shape   Shape   `yaml:"shape"`   // series shape, defaults to linear
}

// Project applies the growth model to a single baseline value.
func Project(baseline float64, cfg Config) float64 {
	periods := cfg.Periods
	if periods < 1 {
		periods = 1
	}
	switch cfg.Mode {
	case ModeAbsolute:
		return baseline + cfg.Value*float64(periods)
	default:
		if periods == 1 {
			return baseline * (1 + cfg.Rate)
		}
		return baseline * math.Pow(1+cfg.Rate, float64(periods))
	}
}

// Distribute splits totalGrowth across skills. With maintainProportions each
// skill receives its weight share (weights are percentages); otherwise growth
// is split evenly. The distributed sum always equals totalGrowth within
// tolerance.
func Distribute(totalGrowth float64, weights map[string]float64, maintainProportions bool) map[string]float64 {
	out := make(map[string]float64, len(weights))
	if len(weights) == 0 {
		return out
	}
	if maintainProportions {
		for skill, weight := range weights {
			out[skill] = mathutil.ApplyPercentage(totalGrowth, weight)
		}
		return out
	}
	share := totalGrowth / float64(len(weights))
	for skill := range weights {
		out[skill] = share
	}
	return out
}

// ShapeFunc maps progress in [0,1] and a bucket index to a growth multiplier.
// Implementations are pluggable so the projection law is a strategy, not a
// hardcoded formula.
type ShapeFunc func(progress float64, index int) float64

// LinearShape interpolates the multiplier from 1 to target.
func LinearShape(target float64) ShapeFunc {
	return func(progress float64, _ int) float64 {
		return 1 + (target-1)*progress
	}
}

// ExponentialShape back-loads growth toward the end of the horizon.
func ExponentialShape(target float64) ShapeFunc {
	return func(progress float64, _ int) float64 {
		return 1 + (target-1)*progress*progress
	}
}

// SeasonalShape layers a sinusoidal factor over the linear trend with a
// fixed bucket period.
func SeasonalShape(target, amplitude float64) ShapeFunc {
	linear := LinearShape(target)
	return func(progress float64, index int) float64 {
		cycle := math.Sin(2 * math.Pi * float64(index) / constants.SeasonalPeriodBuckets)
		return linear(progress, index) * (1 + amplitude*cycle)
	}
}

// ShapeFor returns the ShapeFunc for a configured shape name. The seasonal
// amplitude defaults to 10% of the swing toward the target.
func ShapeFor(shape Shape, target float64) ShapeFunc {
	switch shape {
	case ShapeExponential:
		return ExponentialShape(target)
	case ShapeSeasonal:
		return SeasonalShape(target, 0.1)
	default:
		return LinearShape(target)
	}
}

// ProjectSeries applies a shape function across buckets, producing one
// projected value per bucket. buckets must be positive.
func ProjectSeries(baseline float64, buckets int, shape ShapeFunc) ([]float64, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("projection requires at least one bucket, got %d", buckets)
	}
	out := make([]float64, buckets)
	for i := 0; i < buckets; i++ {
		progress := 0.0
		if buckets > 1 {
			progress = float64(i) / float64(buckets-1)
		}
		out[i] = baseline * shape(progress, i)
	}
	return out, nil
}

// Warning flags an unrealistic growth scenario. Warnings are advisory; the
// caller decides whether to proceed.
type Warning struct {
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// ValidateScenario inspects the overall multiplier implied by a growth config
// over a horizon of buckets and flags extrapolations that rarely survive
// contact with reality.
func ValidateScenario(cfg Config, horizonBuckets int) []Warning {
	if horizonBuckets <= 0 {
		horizonBuckets = cfg.Periods
	}
	base := 100.0
	projected := Project(base, cfg)
	if base == 0 || projected <= 0 {
		return nil
	}
	multiplier := projected / base

	var warnings []Warning
	if multiplier > 10 {
		warnings = append(warnings, Warning{
			Message:    fmt.Sprintf("growth multiplier %.1fx over the horizon is unrealistic", multiplier),
			Suggestion: "reduce the growth rate or shorten the projection horizon",
		})
	}
	if cfg.Mode == ModePercentage && cfg.Rate > 0.10 {
		warnings = append(warnings, Warning{
			Message:    fmt.Sprintf("implied per-period growth rate %.1f%% exceeds 10%%", cfg.Rate*100),
			Suggestion: "spread the target over more periods or validate the demand driver",
		})
	}
	if multiplier > 5 && horizonBuckets < 90 {
		warnings = append(warnings, Warning{
			Message:    fmt.Sprintf("%.1fx growth inside %d buckets leaves no time to hire and train", multiplier, horizonBuckets),
			Suggestion: "stage the growth across at least 90 buckets or pre-build capacity",
		})
	}
	return warnings
}
