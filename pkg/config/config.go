// Package config provides configuration loading and management for mprgeom.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"mprgeom/pkg/geometry"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumCores specifies how many workers derive slice distances
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Geometry thresholds
	Geometry struct {
		// ObliqueTolerance is the minimum dot product between the normals of
		// two oblique planes for them to share an orientation
		ObliqueTolerance float64 `yaml:"obliqueTolerance"`

		// ObliquityThreshold is the minimum direction cosine for a row or
		// column to be aligned with a patient axis
		ObliquityThreshold float64 `yaml:"obliquityThreshold"`
	} `yaml:"geometry"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.NumCores = runtime.NumCPU()

	cfg.Geometry.ObliqueTolerance = geometry.DefaultObliqueTolerance
	cfg.Geometry.ObliquityThreshold = geometry.DefaultObliquityThreshold

	cfg.Output.Verbose = true

	return cfg
}

// Comparator returns the orientation comparator configured by cfg
func (cfg *Config) Comparator() geometry.Comparator {
	return geometry.Comparator{
		ObliquityThreshold: cfg.Geometry.ObliquityThreshold,
		ObliqueTolerance:   cfg.Geometry.ObliqueTolerance,
	}
}

// Validate checks that the configured values are usable
func (cfg *Config) Validate() error {
	if cfg.Processing.NumCores < 1 {
		return fmt.Errorf("numCores must be at least 1, got %d", cfg.Processing.NumCores)
	}
	if cfg.Geometry.ObliqueTolerance <= 0 || cfg.Geometry.ObliqueTolerance > 1 {
		return fmt.Errorf("obliqueTolerance must be in (0, 1], got %v", cfg.Geometry.ObliqueTolerance)
	}
	if cfg.Geometry.ObliquityThreshold <= 0 || cfg.Geometry.ObliquityThreshold >= 1 {
		return fmt.Errorf("obliquityThreshold must be in (0, 1), got %v", cfg.Geometry.ObliquityThreshold)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
