package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/planwise/staffing-forecast/pkg/params"
)

const testConfig = `
simulation:
  horizonHours: 48
  bucketMinutes: 30
  hourlyCost: 28.5
  targetWaitSeconds: 20
  seed: 7
scenarios:
  - name: Baseline
    active: true
  - name: Peak Season
    active: true
    overrides:
      base_volume: 400
      shrinkage_rate: 30
      overtime_allowed: true
      weather_impact: moderate
    growth:
      mode: percentage
      rate: 0.5
      periods: 12
      shape: exponential
skills:
  skills:
    - name: sales
      weightPercent: 60
    - name: support
      weightPercent: 40
logging:
  level: debug
  format: console
output:
  format: csv
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	conf, err := LoadConfiguration(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if conf.Simulation.HorizonHours != 48 {
		t.Errorf("horizonHours = %d, want 48", conf.Simulation.HorizonHours)
	}
	if conf.Simulation.HourlyCost != 28.5 {
		t.Errorf("hourlyCost = %v, want 28.5", conf.Simulation.HourlyCost)
	}
	if len(conf.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(conf.Scenarios))
	}
	if conf.Scenarios[1].Growth == nil {
		t.Fatal("expected growth config on the second scenario")
	}
	if conf.Skills == nil || len(conf.Skills.Skills) != 2 {
		t.Fatal("expected two skill groups")
	}
	if conf.Logging.Level != "debug" {
		t.Errorf("logging level = %s, want debug", conf.Logging.Level)
	}
	if conf.Output.Format != "csv" {
		t.Errorf("output format = %s, want csv", conf.Output.Format)
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestScenarioParameterSetAppliesOverrides(t *testing.T) {
	conf, err := LoadConfiguration(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	set, err := conf.Scenarios[1].ParameterSet()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	volume, err := set.Number(params.BaseVolume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if volume != 400 {
		t.Errorf("base volume override = %v, want 400", volume)
	}
	overtime, err := set.Bool(params.OvertimeAllowed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !overtime {
		t.Error("overtime override should be true")
	}
	weather, err := set.Enum(params.WeatherImpact)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if weather != "moderate" {
		t.Errorf("weather override = %s, want moderate", weather)
	}

	// The untouched baseline scenario keeps schema defaults.
	baseline, err := conf.Scenarios[0].ParameterSet()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	volume, err = baseline.Number(params.BaseVolume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if volume != 250 {
		t.Errorf("baseline volume = %v, want default 250", volume)
	}
}

func TestScenarioParameterSetCollectsAllViolations(t *testing.T) {
	sc := Scenario{
		Name:   "broken",
		Active: true,
		Overrides: map[string]interface{}{
			"base_volume":    -5,
			"weather_impact": "hurricane",
		},
	}
	_, err := sc.ParameterSet()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "base_volume") || !strings.Contains(msg, "weather_impact") {
		t.Errorf("expected both violations reported, got %s", msg)
	}
}

func TestSimulatorOptions(t *testing.T) {
	conf, err := LoadConfiguration(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts, err := conf.SimulatorOptions(conf.Scenarios[1], nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Horizon.Hours() != 48 {
		t.Errorf("horizon = %v, want 48h", opts.Horizon)
	}
	if opts.BucketSize.Minutes() != 30 {
		t.Errorf("bucket = %v, want 30m", opts.BucketSize)
	}
	if opts.Growth == nil {
		t.Error("expected growth config to carry into options")
	}
	if opts.Seed != 7 {
		t.Errorf("seed = %d, want 7", opts.Seed)
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	conf := &Configuration{
		Simulation: SimulationConfig{BucketMinutes: 120},
		Scenarios: []Scenario{
			{Name: "dup", Active: false},
			{Name: "dup", Active: false},
		},
	}
	warnings := conf.ValidateConfiguration()
	joined := strings.Join(warnings, "\n")
	if !strings.Contains(joined, "duplicate scenario name") {
		t.Errorf("expected duplicate warning, got %v", warnings)
	}
	if !strings.Contains(joined, "inactive") {
		t.Errorf("expected inactive warning, got %v", warnings)
	}
	if !strings.Contains(joined, "exceeds one hour") {
		t.Errorf("expected bucket size warning, got %v", warnings)
	}
}

func TestValidateConfigurationSkillWeights(t *testing.T) {
	conf, err := LoadConfiguration(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	conf.Skills.Skills[0].WeightPercent = 10

	warnings := conf.ValidateConfiguration()
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "skill weights sum") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected skill weight warning, got %v", warnings)
	}
}
