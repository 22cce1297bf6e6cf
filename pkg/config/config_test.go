package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jihwankim/graph-mcmc/pkg/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "info", cfg.Framework.LogLevel)
	require.Equal(t, 4, cfg.Sampling.NumWorkers)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "paths:\n  base_path: /data/runs\nsampling:\n  num_workers: 16\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "/data/runs", cfg.Paths.BasePath)
	require.Equal(t, 16, cfg.Sampling.NumWorkers)
	// Untouched sections keep their defaults.
	require.Equal(t, "data", cfg.Paths.DataDir)
	require.Equal(t, 0.05, cfg.Sampling.Perc)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("RUN_BASE", "/mnt/experiments")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths:\n  base_path: ${RUN_BASE}\n"), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "/mnt/experiments", cfg.Paths.BasePath)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths: ["), 0644))

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.DefaultConfig()
	cfg.Sampling.Seed = 99
	require.NoError(t, cfg.Save(path))

	back, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, back)
}

func TestValidateFailures(t *testing.T) {
	cases := []func(*config.Config){
		func(c *config.Config) { c.Paths.BasePath = "" },
		func(c *config.Config) { c.Paths.DataDir = "" },
		func(c *config.Config) { c.Sampling.NumWorkers = 0 },
		func(c *config.Config) { c.Sampling.Perc = 0 },
		func(c *config.Config) { c.Sampling.Perc = 1.5 },
		func(c *config.Config) { c.Metrics.Enabled = true; c.Metrics.ListenAddr = "" },
	}
	for _, mutate := range cases {
		cfg := config.DefaultConfig()
		mutate(cfg)
		require.Error(t, cfg.Validate())
	}
}
