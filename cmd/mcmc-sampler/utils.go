package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/jihwankim/graph-mcmc/pkg/config"
	"github.com/jihwankim/graph-mcmc/pkg/graph"
	"github.com/jihwankim/graph-mcmc/pkg/reporting"
	"github.com/spf13/cobra"
)

// loadConfig loads the configuration from file, auto-generating if needed
func loadConfig() (*config.Config, error) {
	configPath := cfgFile
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Check if config exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Auto-generate default config
		fmt.Printf("Config file not found, creating default configuration at: %s\n", configPath)
		cfg := config.DefaultConfig()
		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the run logger from config and the --verbose flag.
func newLogger(cfg *config.Config) *reporting.Logger {
	level := reporting.LogLevel(cfg.Framework.LogLevel)
	if verbose {
		level = reporting.LogLevelDebug
	}
	return reporting.NewLogger(reporting.LoggerConfig{
		Level:  level,
		Format: reporting.LogFormat(cfg.Framework.LogFormat),
		Output: os.Stdout,
	})
}

// applyPathOverrides folds --base-path / --data-dir flags into the config.
func applyPathOverrides(cmd *cobra.Command, cfg *config.Config) {
	if basePath, _ := cmd.Flags().GetString("base-path"); basePath != "" {
		cfg.Paths.BasePath = basePath
	}
	if dataDir, _ := cmd.Flags().GetString("data-dir"); dataDir != "" {
		cfg.Paths.DataDir = dataDir
	}
}

// loadInputs reads the observed graph and its labels file. labelsName is
// the label file stem; pass "" for the default "<graph>_labels.tsv".
func loadInputs(cfg *config.Config, graphName, labelsName string) (*graph.Graph, *graph.LabelIndex, error) {
	dataDir := filepath.Join(cfg.Paths.BasePath, cfg.Paths.DataDir)

	g, err := graph.Load(filepath.Join(dataDir, graphName+".tsv"))
	if err != nil {
		return nil, nil, err
	}

	if labelsName == "" {
		labelsName = graphName + "_labels"
	}
	labels, err := graph.LoadLabels(filepath.Join(dataDir, labelsName+".tsv"), g)
	if err != nil {
		return nil, nil, err
	}
	return g, labels, nil
}

// outDir is where all result files land.
func outDir(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.BasePath, "out")
}

// defaultSwaps resolves a negative --num-swaps to the suggested burn-in of
// ⌊m·ln m⌋.
func defaultSwaps(numSwaps, m int) int {
	if numSwaps >= 0 {
		return numSwaps
	}
	return int(float64(m) * math.Log(float64(m)))
}
