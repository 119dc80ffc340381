// Package output provides utilities for formatting and displaying scenario
// results.
package output

import (
	"fmt"

	"github.com/planwise/staffing-forecast/internal/simulation"
	"github.com/planwise/staffing-forecast/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(results []*simulation.ScenarioResult) {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		fmt.Printf("--- Results for scenario %s ---\n", result.Name)
		fmt.Printf("Bucket           | Volume   | Agents | Confidence\n")
		fmt.Printf("______           | ______   | ______ | __________\n")
		for j, point := range result.Forecast {
			_, _ = p.Printf("%s | %8.1f | %6d | %.2f\n",
				point.Timestamp.Format(constants.TimestampLayout),
				point.PredictedVolume,
				result.Staffing[j].RequiredAgents,
				point.Confidence,
			)
		}
		_, _ = p.Printf("expected volume %.0f, peak %.0f, required agents %d, cost impact $%.2f, service level %.1f%%\n",
			result.Metrics.ExpectedVolume,
			result.Metrics.PeakVolume,
			result.Metrics.RequiredAgents,
			result.Metrics.CostImpact,
			result.Metrics.ServiceLevel*100,
		)
		for _, warning := range result.Warnings {
			fmt.Printf("warning: %s\n", warning)
		}
		if i < len(results)-1 {
			fmt.Printf("\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format. All results share the
// same timeline, so bucket timestamps come from the first.
func CsvFormat(results []*simulation.ScenarioResult) {
	if len(results) == 0 {
		return
	}
	fmt.Printf(`"bucket"`)
	for _, result := range results {
		fmt.Printf(`,"volume (%s)","agents (%s)"`, result.Name, result.Name)
	}
	fmt.Printf("\n")
	for i, point := range results[0].Forecast {
		fmt.Printf(`"%s"`, point.Timestamp.Format(constants.TimestampLayout))
		for _, result := range results {
			fmt.Printf(`,"%.2f"`, result.Forecast[i].PredictedVolume)
			fmt.Printf(`,"%d"`, result.Staffing[i].RequiredAgents)
		}
		fmt.Printf("\n")
	}
}
