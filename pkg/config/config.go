// Package config loads and validates the sampler configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the sampler configuration
type Config struct {
	Framework FrameworkConfig `yaml:"framework"`
	Paths     PathsConfig     `yaml:"paths"`
	Sampling  SamplingConfig  `yaml:"sampling"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// FrameworkConfig contains general settings
type FrameworkConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// PathsConfig locates the input graphs and the output directory. Graph
// files are read from <base_path>/<data_dir>/ and results written to
// <base_path>/out/.
type PathsConfig struct {
	BasePath string `yaml:"base_path"`
	DataDir  string `yaml:"data_dir"`
}

// SamplingConfig contains default run parameters; CLI flags override them.
type SamplingConfig struct {
	NumWorkers int     `yaml:"num_workers"`
	Seed       int64   `yaml:"seed"`
	Perc       float64 `yaml:"perc"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Framework: FrameworkConfig{
			LogLevel:  "info",
			LogFormat: "text",
		},
		Paths: PathsConfig{
			BasePath: ".",
			DataDir:  "data",
		},
		Sampling: SamplingConfig{
			NumWorkers: 4,
			Seed:       0,
			Perc:       0.05,
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: ":9464",
		},
	}
}

// Load loads configuration from a YAML file, starting from the defaults.
// A missing file is not an error; environment variables in the file are
// expanded before parsing.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = "config.yaml"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	expanded := []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes configuration to a YAML file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Paths.BasePath == "" {
		return fmt.Errorf("paths.base_path is required")
	}
	if c.Paths.DataDir == "" {
		return fmt.Errorf("paths.data_dir is required")
	}
	if c.Sampling.NumWorkers < 1 {
		return fmt.Errorf("sampling.num_workers must be at least 1")
	}
	if c.Sampling.Perc <= 0 || c.Sampling.Perc > 1 {
		return fmt.Errorf("sampling.perc must be in (0, 1]")
	}
	if c.Metrics.Enabled && c.Metrics.ListenAddr == "" {
		return fmt.Errorf("metrics.listen_addr is required when metrics are enabled")
	}
	return nil
}
