package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	version = "dev" // Will be set by build flags
)

var rootCmd = &cobra.Command{
	Use:   "mcmc-sampler",
	Short: "Configuration-model MCMC graph sampler",
	Long: `mcmc-sampler draws uniform random multigraphs with a fixed degree sequence
via double-edge-swap Markov chain Monte Carlo. Three kernels are available:
CM (uniform over degree-preserving graphs), LA (additionally preserves the
joint label matrix), and LW (biases toward a target label-mixing structure).
Chains run in parallel and samples are written as edge-list TSV files.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(convergenceCmd)
	rootCmd.AddCommand(labelScalabilityCmd)
}

// Commands are defined in separate files:
// - sampleCmd in sample.go
// - convergenceCmd in convergence.go
// - labelScalabilityCmd in labels.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
