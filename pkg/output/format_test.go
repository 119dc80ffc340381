package output

import (
	"testing"
	"time"

	"github.com/planwise/staffing-forecast/internal/simulation"
	"github.com/planwise/staffing-forecast/pkg/params"
	"github.com/planwise/staffing-forecast/pkg/testutil"
	"go.uber.org/zap"
)

func simulatedResults(t *testing.T) []*simulation.ScenarioResult {
	t.Helper()
	sim := simulation.New(zap.NewNop(), simulation.Options{
		Start:      time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		Horizon:    6 * time.Hour,
		BucketSize: time.Hour,
		HourlyCost: 25,
		Sampler:    testutil.FixedSampler(0),
	})

	var results []*simulation.ScenarioResult
	for _, name := range []string{"baseline", "candidate"} {
		result, err := sim.Simulate(name, params.DefaultSet(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		results = append(results, result)
	}
	return results
}

func TestFindScenario(t *testing.T) {
	results := simulatedResults(t)

	found := testutil.FindScenario(results, "candidate")
	if found == nil {
		t.Fatal("expected to find the candidate scenario")
	}
	if found.Name != "candidate" {
		t.Errorf("found scenario %s, want candidate", found.Name)
	}
	if testutil.FindScenario(results, "missing") != nil {
		t.Error("absent scenario names must return nil")
	}
}

func TestFormattersHandleResults(t *testing.T) {
	results := simulatedResults(t)

	// Formatters write to stdout; here we only assert they walk paired
	// forecast and staffing curves without panicking.
	PrettyFormat(results)
	CsvFormat(results)
	CsvFormat(nil)
}
