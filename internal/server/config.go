package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/planwise/staffing-forecast/internal/config"
	"github.com/planwise/staffing-forecast/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address      string                  `yaml:"address"`
	MaxBodyBytes int64                   `yaml:"maxBodyBytes"`
	Logging      config.LoggingConfig    `yaml:"logging"`
	Simulation   config.SimulationConfig `yaml:"simulation"`
}

// LoadConfig loads the server configuration from YAML. If the file does not
// exist, defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:      constants.DefaultServerAddress,
		MaxBodyBytes: constants.DefaultMaxBodySizeBytes,
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if cfg.Address == "" {
		cfg.Address = constants.DefaultServerAddress
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = constants.DefaultMaxBodySizeBytes
	}
	return cfg, nil
}
