// Package constants provides shared constants for the staffing-forecast application.
package constants

import "time"

// TimestampLayout is the format used for bucket timestamps in output and
// serialized results.
const TimestampLayout = "2006-01-02 15:04"

// Planning constants
const (
	// SecondsPerHour converts handle times to Erlang offered load.
	SecondsPerHour = 3600.0

	// PercentageMultiplier is used for percentage conversions.
	PercentageMultiplier = 100.0

	// DistributionTolerance is the tolerance for skill-distribution sums.
	DistributionTolerance = 1e-6

	// ComparisonTolerance is the tolerance for metric comparisons.
	ComparisonTolerance = 1e-9

	// MaxStaffingIterations bounds the agent fixed-point search.
	MaxStaffingIterations = 100

	// SeasonalPeriodBuckets is the period of the seasonal growth shape.
	SeasonalPeriodBuckets = 30

	// MonthsPerYear is used by break-even math.
	MonthsPerYear = 12.0
)

// Simulation defaults
const (
	// DefaultHorizonHours is the default forecast horizon.
	DefaultHorizonHours = 24

	// DefaultBucketSize is the default forecast bucket width.
	DefaultBucketSize = time.Hour

	// DefaultHourlyCost is the default fully-loaded agent cost per hour.
	DefaultHourlyCost = 25.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format.
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format.
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name.
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name.
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address.
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB).
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)
