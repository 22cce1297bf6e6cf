package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jihwankim/graph-mcmc/pkg/config"
	"github.com/jihwankim/graph-mcmc/pkg/graph"
	"github.com/jihwankim/graph-mcmc/pkg/mcmc"
	"github.com/jihwankim/graph-mcmc/pkg/monitoring"
	"github.com/jihwankim/graph-mcmc/pkg/reporting"
	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Args:  cobra.NoArgs,
	Short: "Draw random graphs from the configuration model",
	Long: `Runs D independent MCMC chains from the observed graph and writes each
chain's final state as an edge-list TSV under <base-path>/out/.

A negative --num-swaps selects the suggested burn-in of m*ln(m) proposals.
With --actual-swaps, only accepted transitions count toward the budget.`,
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().String("graph-name", "", "name of the observed graph (reads <data-dir>/<name>.tsv)")
	sampleCmd.Flags().String("data-dir", "", "input directory under base-path (overrides config)")
	sampleCmd.Flags().String("base-path", "", "base path for data and output (overrides config)")
	sampleCmd.Flags().String("algorithm", "CM", "sampler algorithm (CM, LA or LW)")
	sampleCmd.Flags().Int("num-samples", 1, "number of graphs to sample (parallel chains)")
	sampleCmd.Flags().Int("num-swaps", -1, "iterations per chain (-1 = m*ln(m))")
	sampleCmd.Flags().Int("num-workers", 0, "max concurrent chains (0 = config default)")
	sampleCmd.Flags().Bool("actual-swaps", false, "count only accepted swaps toward the budget")
	sampleCmd.Flags().Int64("seed", 0, "base random seed; chain k uses seed+k")
	sampleCmd.Flags().String("format", "text", "progress output format (text, json)")
}

func runSample(cmd *cobra.Command, _ []string) error {
	graphName, _ := cmd.Flags().GetString("graph-name")
	if graphName == "" {
		return fmt.Errorf("--graph-name flag is required")
	}
	algoName, _ := cmd.Flags().GetString("algorithm")
	numSamples, _ := cmd.Flags().GetInt("num-samples")
	numSwaps, _ := cmd.Flags().GetInt("num-swaps")
	numWorkers, _ := cmd.Flags().GetInt("num-workers")
	actualSwaps, _ := cmd.Flags().GetBool("actual-swaps")
	seed, _ := cmd.Flags().GetInt64("seed")
	format, _ := cmd.Flags().GetString("format")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyPathOverrides(cmd, cfg)
	if numWorkers == 0 {
		numWorkers = cfg.Sampling.NumWorkers
	}

	algo, err := mcmc.ParseAlgorithm(algoName)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	logger.Info("MCMC sampler starting", "version", version, "graph", graphName, "algorithm", algo)

	g, labels, err := loadInputs(cfg, graphName, "")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return samplePass(ctx, cfg, logger, sampleParams{
		graphName:   graphName,
		outputName:  graphName,
		algorithm:   algo,
		graph:       g,
		labels:      labels,
		chains:      numSamples,
		workers:     numWorkers,
		swaps:       defaultSwaps(numSwaps, g.M()),
		actualSwaps: actualSwaps,
		seed:        seed,
		format:      reporting.OutputFormat(format),
	})
}

// sampleParams is one sampling pass, shared with the label-scalability run.
type sampleParams struct {
	graphName   string
	outputName  string
	algorithm   mcmc.Algorithm
	graph       *graph.Graph
	labels      *graph.LabelIndex
	chains      int
	workers     int
	swaps       int
	actualSwaps bool
	seed        int64
	format      reporting.OutputFormat
}

// samplePass runs the chains and writes one sampled edge list per chain.
func samplePass(ctx context.Context, cfg *config.Config, logger *reporting.Logger, p sampleParams) error {
	var metrics *monitoring.Metrics
	if cfg.Metrics.Enabled {
		metrics = monitoring.New()
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.ListenAddr); err != nil {
				logger.Warn("Metrics endpoint failed", "error", err)
			}
		}()
	}

	progress := reporting.NewProgressReporter(p.format, logger)
	progress.ReportRunStarted(p.graphName, string(p.algorithm), p.chains, p.swaps)

	start := time.Now()
	results, err := mcmc.Run(ctx, p.graph, p.labels, mcmc.DriverConfig{
		Algorithm:   p.algorithm,
		Chains:      p.chains,
		MaxWorkers:  p.workers,
		Seed:        p.seed,
		Budget:      p.swaps,
		ActualSwaps: p.actualSwaps,
		Metrics:     metrics,
	}, logger)
	if err != nil {
		return fmt.Errorf("sampling failed: %w", err)
	}

	storage, err := reporting.NewStorage(outDir(cfg), logger)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}

	summary := reporting.RunSummary{
		GraphName: p.graphName,
		Method:    string(p.algorithm),
		NumEdges:  p.graph.M(),
	}
	for _, res := range results {
		filename := reporting.SampleFileName(p.outputName, string(p.algorithm), p.swaps, res.WallNs, p.seed, p.actualSwaps)
		path, err := storage.SaveSampledEdges(filename, res.Edges)
		if err != nil {
			return fmt.Errorf("failed to save chain %d: %w", res.ChainID, err)
		}
		chain := reporting.ChainSummary{
			ChainID:         res.ChainID,
			Swaps:           res.Stats.NumSwaps,
			Proposals:       res.Stats.Proposals,
			AcceptanceRatio: res.Stats.AcceptanceRatio,
			OutputFile:      path,
		}
		progress.ReportChainCompleted(chain)
		summary.Chains = append(summary.Chains, chain)
	}
	summary.ElapsedNs = time.Since(start).Nanoseconds()
	progress.ReportRunCompleted(summary)
	return nil
}
