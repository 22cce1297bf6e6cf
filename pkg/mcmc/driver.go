package mcmc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jihwankim/graph-mcmc/pkg/graph"
	"github.com/jihwankim/graph-mcmc/pkg/monitoring"
	"github.com/jihwankim/graph-mcmc/pkg/reporting"
)

// DriverConfig parameterizes a parallel multi-chain run.
type DriverConfig struct {
	Algorithm Algorithm
	// Chains is D, the number of independent chains.
	Chains int
	// MaxWorkers caps concurrency; the worker count is min(Chains, MaxWorkers).
	MaxWorkers int
	// Seed is the base seed; chain k runs on Seed + k.
	Seed int64
	// Budget and ActualSwaps select the termination mode per chain.
	Budget      int
	ActualSwaps bool
	// SnapshotEvery enables convergence telemetry when positive.
	SnapshotEvery int
	// TargetJLM overrides the LW target matrix; nil means the observed one.
	TargetJLM [][]int
	// Metrics, when set, receives per-chain observations.
	Metrics *monitoring.Metrics
}

// Validate rejects configurations that cannot start.
func (c DriverConfig) Validate() error {
	if _, err := ParseAlgorithm(string(c.Algorithm)); err != nil {
		return err
	}
	if c.Chains <= 0 {
		return fmt.Errorf("number of chains must be positive, got %d", c.Chains)
	}
	if c.MaxWorkers <= 0 {
		return fmt.Errorf("number of workers must be positive, got %d", c.MaxWorkers)
	}
	if c.Budget <= 0 {
		return fmt.Errorf("swap budget must be positive, got %d", c.Budget)
	}
	return nil
}

// Run executes cfg.Chains independent chains from the observed graph and
// gathers their results in chain-id order. Each chain works on deep copies
// of the mutable state; the observed graph and labels are never written.
// Any chain error (including a recovered panic) fails the whole run and
// discards partial results.
func Run(ctx context.Context, g *graph.Graph, labels *graph.LabelIndex, cfg DriverConfig, logger *reporting.Logger) ([]*ChainResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if labels == nil && cfg.Algorithm != AlgorithmCM {
		return nil, fmt.Errorf("algorithm %s requires node labels", cfg.Algorithm)
	}

	workers := cfg.MaxWorkers
	if cfg.Chains < workers {
		workers = cfg.Chains
	}
	logger.Info("Starting chains",
		"algorithm", cfg.Algorithm,
		"chains", cfg.Chains,
		"workers", workers,
		"budget", cfg.Budget,
		"actual_swaps", cfg.ActualSwaps,
	)

	jobs := make(chan int)
	results := make([]*ChainResult, cfg.Chains)
	errs := make([]error, cfg.Chains)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				results[id], errs[id] = runOne(ctx, g, labels, cfg, id, logger)
			}
		}()
	}

	for id := 0; id < cfg.Chains; id++ {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	// Report the first failure in chain order; partial results are dropped.
	for id, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("chain %d: %w", id, err)
		}
	}

	logger.Info("All chains finished", "chains", cfg.Chains)
	return results, nil
}

// runOne runs a single chain on private copies of the state, converting a
// chain panic into an error so one bad chain cannot take down the process
// without cleanup.
func runOne(ctx context.Context, g *graph.Graph, labels *graph.LabelIndex, cfg DriverConfig, id int, logger *reporting.Logger) (res *ChainResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("chain panicked: %v", r)
		}
	}()

	chainGraph := g.Clone()
	var chainLabels *graph.LabelIndex
	if labels != nil {
		chainLabels = labels.Clone()
	}

	sampler, err := NewSampler(cfg.Algorithm, chainLabels, cfg.TargetJLM)
	if err != nil {
		return nil, err
	}

	if cfg.Metrics != nil {
		cfg.Metrics.ActiveChains.Inc()
		defer cfg.Metrics.ActiveChains.Dec()
	}

	start := time.Now()
	res, err = RunChain(ctx, chainGraph, chainLabels, sampler, ChainConfig{
		ChainID:       id,
		Seed:          cfg.Seed + int64(id),
		Budget:        cfg.Budget,
		ActualSwaps:   cfg.ActualSwaps,
		SnapshotEvery: cfg.SnapshotEvery,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Metrics != nil {
		cfg.Metrics.ObserveChain(string(cfg.Algorithm), res.Stats.Proposals, res.Stats.NumSwaps, time.Since(start))
	}
	logger.Debug("Chain finished",
		"chain", id,
		"swaps", res.Stats.NumSwaps,
		"proposals", res.Stats.Proposals,
		"acceptance_ratio", res.Stats.AcceptanceRatio,
	)
	return res, nil
}
