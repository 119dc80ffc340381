// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the planning config file.
package config

import (
	"fmt"
	"time"

	"github.com/planwise/staffing-forecast/internal/simulation"
	"github.com/planwise/staffing-forecast/pkg/constants"
	"github.com/planwise/staffing-forecast/pkg/forecast"
	"github.com/planwise/staffing-forecast/pkg/growth"
	"github.com/planwise/staffing-forecast/pkg/params"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for staffing-forecast.
type Configuration struct {
	Simulation SimulationConfig                    `yaml:"simulation,omitempty"`
	Scenarios  []Scenario                          `yaml:"scenarios"`
	Skills     *simulation.ResourceAllocationModel `yaml:"skills,omitempty"`
	Logging    LoggingConfig                       `yaml:"logging,omitempty"`
	Output     OutputConfig                        `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options.
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options.
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// SimulationConfig holds the horizon and cost settings shared by all
// scenarios.
type SimulationConfig struct {
	Start             string  `yaml:"start,omitempty"` // constants.TimestampLayout
	HorizonHours      int     `yaml:"horizonHours,omitempty"`
	BucketMinutes     int     `yaml:"bucketMinutes,omitempty"`
	HourlyCost        float64 `yaml:"hourlyCost,omitempty"`
	TargetWaitSeconds float64 `yaml:"targetWaitSeconds,omitempty"`
	Seed              int64   `yaml:"seed,omitempty"`
}

// Scenario names one what-if case: a set of parameter overrides on top of
// the default planning schema, plus an optional growth trajectory.
type Scenario struct {
	Name      string                 `yaml:"name"`
	Active    bool                   `yaml:"active"`
	Overrides map[string]interface{} `yaml:"overrides,omitempty"`
	Growth    *growth.Config         `yaml:"growth,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ParameterSet builds the validated parameter set for one scenario by
// applying its overrides to the default schema. All violations are collected
// into a single error.
func (sc Scenario) ParameterSet() (*params.Set, error) {
	set := params.DefaultSet()
	var verr params.ValidationError
	for id, raw := range sc.Overrides {
		if err := applyOverride(set, id, raw); err != nil {
			if fe, ok := err.(*params.ValidationError); ok {
				verr.Fields = append(verr.Fields, fe.Fields...)
				continue
			}
			verr.Fields = append(verr.Fields, params.FieldError{ID: id, Message: err.Error()})
		}
	}
	if len(verr.Fields) > 0 {
		return nil, &verr
	}
	return set, nil
}

func applyOverride(set *params.Set, id string, raw interface{}) error {
	switch v := raw.(type) {
	case float64:
		return set.SetNumber(id, v)
	case int:
		return set.SetNumber(id, float64(v))
	case int64:
		return set.SetNumber(id, float64(v))
	case bool:
		return set.SetBool(id, v)
	case string:
		return set.SetEnum(id, v)
	default:
		return fmt.Errorf("unsupported override value %v (%T)", raw, raw)
	}
}

// SimulatorOptions converts the shared simulation settings plus one
// scenario's growth config into simulator options.
func (conf *Configuration) SimulatorOptions(sc Scenario, sampler forecast.Sampler) (simulation.Options, error) {
	opts := simulation.Options{
		Horizon:    time.Duration(conf.Simulation.HorizonHours) * time.Hour,
		BucketSize: time.Duration(conf.Simulation.BucketMinutes) * time.Minute,
		HourlyCost: conf.Simulation.HourlyCost,
		TargetWait: conf.Simulation.TargetWaitSeconds,
		Seed:       conf.Simulation.Seed,
		Sampler:    sampler,
		Growth:     sc.Growth,
	}
	if conf.Simulation.Start != "" {
		start, err := time.Parse(constants.TimestampLayout, conf.Simulation.Start)
		if err != nil {
			return opts, fmt.Errorf("invalid simulation start %q: %w", conf.Simulation.Start, err)
		}
		opts.Start = start
	}
	return opts, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Warnings are advisory and never block a simulation.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(conf.Scenarios) == 0 {
		warnings = append(warnings, "no scenarios configured; nothing will be simulated")
	}

	activeCount := 0
	seen := make(map[string]bool)
	for _, sc := range conf.Scenarios {
		if sc.Name == "" {
			warnings = append(warnings, "scenario with empty name")
		}
		if seen[sc.Name] {
			warnings = append(warnings, fmt.Sprintf("duplicate scenario name %q", sc.Name))
		}
		seen[sc.Name] = true
		if !sc.Active {
			continue
		}
		activeCount++
		if sc.Growth != nil {
			buckets := conf.horizonBuckets()
			for _, w := range growth.ValidateScenario(*sc.Growth, buckets) {
				warnings = append(warnings, fmt.Sprintf("scenario %q: %s (%s)", sc.Name, w.Message, w.Suggestion))
			}
		}
	}
	if activeCount == 0 && len(conf.Scenarios) > 0 {
		warnings = append(warnings, "all scenarios are inactive")
	}

	if conf.Simulation.BucketMinutes > 60 {
		warnings = append(warnings, fmt.Sprintf("bucket size %d minutes exceeds one hour; diurnal shape loses resolution", conf.Simulation.BucketMinutes))
	}

	if conf.Skills != nil {
		total := 0.0
		for _, s := range conf.Skills.Skills {
			total += s.WeightPercent
		}
		if len(conf.Skills.Skills) > 0 && (total < 99.999 || total > 100.001) {
			warnings = append(warnings, fmt.Sprintf("skill weights sum to %.2f%%, expected 100%%", total))
		}
	}

	return warnings
}

func (conf *Configuration) horizonBuckets() int {
	horizon := conf.Simulation.HorizonHours
	if horizon <= 0 {
		horizon = constants.DefaultHorizonHours
	}
	bucketMinutes := conf.Simulation.BucketMinutes
	if bucketMinutes <= 0 {
		bucketMinutes = int(constants.DefaultBucketSize.Minutes())
	}
	return horizon * 60 / bucketMinutes
}
