// Package simulation orchestrates parameter validation, growth projection,
// volume forecasting, and per-bucket staffing into scenario results.
package simulation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/planwise/staffing-forecast/internal/metrics"
	"github.com/planwise/staffing-forecast/pkg/constants"
	"github.com/planwise/staffing-forecast/pkg/forecast"
	"github.com/planwise/staffing-forecast/pkg/growth"
	"github.com/planwise/staffing-forecast/pkg/mathutil"
	"github.com/planwise/staffing-forecast/pkg/params"
	"github.com/planwise/staffing-forecast/pkg/staffing"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// weatherMultipliers scales volume for the weather_impact enum. Severe
// weather drives outage and rebooking traffic up.
var weatherMultipliers = map[string]float64{
	"none":     1.00,
	"mild":     1.05,
	"moderate": 1.15,
	"severe":   1.30,
}

// Options configures a Simulator.
type Options struct {
	Start      time.Time
	Horizon    time.Duration
	BucketSize time.Duration
	HourlyCost float64
	Seed       int64
	Sampler    forecast.Sampler // overrides Seed when set
	Growth     *growth.Config
	TargetWait float64 // answer-within threshold in seconds
}

// Simulator turns a validated parameter set into a scenario result. It is
// stateless and safe for concurrent use across parameter sets.
type Simulator struct {
	logger *zap.Logger
	opts   Options
	calc   staffing.Calculator
}

// New constructs a Simulator, filling unset options with defaults.
func New(logger *zap.Logger, opts Options) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Horizon <= 0 {
		opts.Horizon = constants.DefaultHorizonHours * time.Hour
	}
	if opts.BucketSize <= 0 {
		opts.BucketSize = constants.DefaultBucketSize
	}
	if opts.HourlyCost <= 0 {
		opts.HourlyCost = constants.DefaultHourlyCost
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now().Truncate(opts.BucketSize)
	}
	if opts.TargetWait <= 0 {
		opts.TargetWait = 20
	}
	return &Simulator{logger: logger, opts: opts}
}

// Simulate runs one scenario. The resource model is optional and read-only;
// when present, required agents are distributed across its skill groups and
// coverage minimums are checked. A NonConvergence condition from the staffing
// search aborts the simulation and is surfaced to the caller, never retried.
func (s *Simulator) Simulate(name string, set *params.Set, model *ResourceAllocationModel) (*ScenarioResult, error) {
	if set == nil {
		return nil, fmt.Errorf("parameter set cannot be nil")
	}
	if err := set.Validate(); err != nil {
		metrics.SimulationFailuresTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	in, err := readInputs(set)
	if err != nil {
		metrics.SimulationFailuresTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	sampler := s.opts.Sampler
	if sampler == nil {
		sampler = forecast.NewSeededSampler(s.opts.Seed)
	}
	engine := forecast.NewEngine(s.logger, sampler)
	points, err := engine.Forecast(forecast.Request{
		BaseVolume:       in.baseVolume,
		VarianceFraction: in.variance,
		Start:            s.opts.Start,
		Horizon:          s.opts.Horizon,
		BucketSize:       s.opts.BucketSize,
	})
	if err != nil {
		return nil, fmt.Errorf("forecast generation failed: %w", err)
	}

	var warnings []string
	if s.opts.Growth != nil {
		warnings = append(warnings, s.applyGrowth(points)...)
	}

	staffingPoints, bucketResults, err := s.staffBuckets(points, in)
	if err != nil {
		return nil, err
	}

	result := &ScenarioResult{
		ID:         uuid.NewString(),
		Name:       name,
		CreatedAt:  time.Now(),
		Parameters: set.Clone().Parameters(),
		Forecast:   points,
		Staffing:   staffingPoints,
		Warnings:   warnings,
	}
	result.Metrics = aggregate(points, bucketResults, in, s.opts)

	if model != nil && len(model.Skills) > 0 {
		result.SkillAgents = growth.Distribute(float64(result.Metrics.RequiredAgents), model.Weights(), true)
		for _, skill := range model.Skills {
			if allocated := result.SkillAgents[skill.Name]; allocated < float64(skill.CoverageMinimum) {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"skill %s allocated %.1f agents, below coverage minimum %d",
					skill.Name, allocated, skill.CoverageMinimum))
			}
		}
	}

	metrics.SimulationsTotal.Inc()
	metrics.BucketsComputedTotal.Add(float64(len(points)))
	s.logger.Info("scenario simulated",
		zap.String("op", "simulation.Simulate"),
		zap.String("scenario", name),
		zap.String("resultId", result.ID),
		zap.Int("buckets", len(points)),
		zap.Int("requiredAgents", result.Metrics.RequiredAgents),
	)
	return result, nil
}

// applyGrowth scales forecast volumes by the configured growth trajectory and
// returns any advisory realism warnings.
func (s *Simulator) applyGrowth(points []forecast.Point) []string {
	cfg := *s.opts.Growth
	target := growth.Project(1, cfg)
	shape := growth.ShapeFor(cfg.Shape, target)
	multipliers, err := growth.ProjectSeries(1, len(points), shape)
	if err != nil {
		return nil
	}
	for i := range points {
		points[i].PredictedVolume *= multipliers[i]
	}

	var warnings []string
	for _, w := range growth.ValidateScenario(cfg, len(points)) {
		s.logger.Warn("growth scenario warning",
			zap.String("op", "simulation.applyGrowth"),
			zap.String("warning", w.Message),
			zap.String("suggestion", w.Suggestion),
		)
		warnings = append(warnings, fmt.Sprintf("%s (%s)", w.Message, w.Suggestion))
	}
	return warnings
}

// staffBuckets computes required agents for every bucket. Buckets are
// independent pure computations, so they run in parallel with a final
// reduction by index.
func (s *Simulator) staffBuckets(points []forecast.Point, in inputs) ([]StaffingPoint, []staffing.Result, error) {
	staffingPoints := make([]StaffingPoint, len(points))
	bucketResults := make([]staffing.Result, len(points))

	var g errgroup.Group
	for i := range points {
		g.Go(func() error {
			res, err := s.calc.RequiredAgents(staffing.Input{
				Volume:             points[i].PredictedVolume / s.opts.BucketSize.Hours(),
				HandleTimeSeconds:  in.handleTime,
				TargetWaitSeconds:  s.opts.TargetWait,
				TargetServiceLevel: in.serviceLevel,
				Shrinkage:          in.shrinkage,
			})
			if err != nil {
				var nc *staffing.NonConvergenceError
				if errors.As(err, &nc) {
					metrics.NonConvergenceTotal.Inc()
					metrics.SimulationFailuresTotal.WithLabelValues("nonconvergence").Inc()
				}
				return fmt.Errorf("bucket %s: %w", points[i].Timestamp.Format(constants.TimestampLayout), err)
			}
			staffingPoints[i] = StaffingPoint{Timestamp: points[i].Timestamp, RequiredAgents: res.Required}
			bucketResults[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return staffingPoints, bucketResults, nil
}

func aggregate(points []forecast.Point, bucketResults []staffing.Result, in inputs, opts Options) Metrics {
	var expected, peak float64
	agents := make([]float64, 0, len(bucketResults))
	levels := make([]float64, 0, len(bucketResults))
	for i, p := range points {
		expected += p.PredictedVolume
		if p.PredictedVolume > peak {
			peak = p.PredictedVolume
		}
		agents = append(agents, float64(bucketResults[i].Required))
		if p.PredictedVolume > 0 {
			levels = append(levels, bucketResults[i].ServiceLevel)
		}
	}

	serviceLevel := in.serviceLevel
	if len(levels) > 0 {
		serviceLevel = mathutil.Mean(levels)
	}

	required := int(math.Round(mathutil.Mean(agents)))
	horizonHours := opts.Horizon.Hours()
	return Metrics{
		ExpectedVolume: expected,
		PeakVolume:     peak,
		RequiredAgents: required,
		CostImpact:     mathutil.Round(float64(required) * horizonHours * opts.HourlyCost),
		ServiceLevel:   serviceLevel,
		Efficiency:     mathutil.Clamp(in.serviceLevel*constants.PercentageMultiplier, 0, 100),
	}
}

// inputs holds the parameter values one simulation consumes.
type inputs struct {
	baseVolume   float64
	variance     float64
	serviceLevel float64
	handleTime   float64
	shrinkage    float64
}

// readInputs extracts and derives the simulation inputs from the set. The
// seasonal, external-event, and weather parameters fold into the effective
// base volume.
func readInputs(set *params.Set) (inputs, error) {
	var in inputs
	base, err := set.Number(params.BaseVolume)
	if err != nil {
		return in, err
	}
	if in.variance, err = set.Fraction(params.VolumeVariance); err != nil {
		return in, err
	}
	if in.serviceLevel, err = set.Fraction(params.ServiceLevelTarget); err != nil {
		return in, err
	}
	if in.handleTime, err = set.Number(params.AverageHandleTime); err != nil {
		return in, err
	}
	if in.shrinkage, err = set.Fraction(params.ShrinkageRate); err != nil {
		return in, err
	}
	seasonal, err := set.Fraction(params.SeasonalAdjustment)
	if err != nil {
		return in, err
	}
	external, err := set.Fraction(params.ExternalEventImpact)
	if err != nil {
		return in, err
	}
	weather, err := set.Enum(params.WeatherImpact)
	if err != nil {
		return in, err
	}
	multiplier, ok := weatherMultipliers[weather]
	if !ok {
		multiplier = 1
	}
	in.baseVolume = base * (1 + seasonal) * (1 + external) * multiplier
	if in.baseVolume < 0 {
		in.baseVolume = 0
	}
	return in, nil
}
