package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/planwise/staffing-forecast/internal/config"
	"github.com/planwise/staffing-forecast/internal/simulation"
	"github.com/planwise/staffing-forecast/pkg/compare"
	"github.com/planwise/staffing-forecast/pkg/constants"
	"github.com/planwise/staffing-forecast/pkg/output"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI override.
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}
		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if outputFormat != constants.OutputFormatPretty && outputFormat != constants.OutputFormatCSV {
		logger.Fatal(fmt.Sprintf("invalid output format %s", outputFormat),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings.
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	// Simulate every active scenario.
	var results []*simulation.ScenarioResult
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "main"),
			)
			continue
		}

		set, err := scenario.ParameterSet()
		if err != nil {
			logger.Fatal("invalid scenario parameters",
				zap.String("op", "main"),
				zap.String("scenario", scenario.Name),
				zap.Error(err),
			)
		}

		opts, err := conf.SimulatorOptions(scenario, nil)
		if err != nil {
			logger.Fatal("invalid simulation settings",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}

		sim := simulation.New(logger, opts)
		result, err := sim.Simulate(scenario.Name, set, conf.Skills)
		if err != nil {
			logger.Fatal("failed to simulate scenario",
				zap.String("op", "main"),
				zap.String("scenario", scenario.Name),
				zap.Error(err),
			)
		}
		results = append(results, result)
	}

	// Compare each scenario against the first as the baseline.
	if len(results) > 1 {
		baseline := results[0]
		for _, candidate := range results[1:] {
			diff := compare.Compare(*baseline, *candidate)
			for _, delta := range diff.Deltas {
				if !delta.Defined {
					logger.Info("comparison metric undefined (zero baseline)",
						zap.String("op", "main"),
						zap.String("scenario", candidate.Name),
						zap.String("metric", delta.Metric),
					)
					continue
				}
				logger.Info("comparison vs baseline",
					zap.String("op", "main"),
					zap.String("scenario", candidate.Name),
					zap.String("metric", delta.Metric),
					zap.Float64("delta", delta.Delta),
					zap.Float64("improvementPercent", delta.ImprovementPercent),
				)
			}
		}
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(results)
	case constants.OutputFormatCSV:
		output.CsvFormat(results)
	}
}
