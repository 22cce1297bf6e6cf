package mcmc_test

import (
	"context"
	"fmt"
	"io"

	"github.com/jihwankim/graph-mcmc/pkg/graph"
	"github.com/jihwankim/graph-mcmc/pkg/mcmc"
	"github.com/jihwankim/graph-mcmc/pkg/reporting"
)

// Example demonstrates sampling degree-preserving random graphs.
func Example() {
	// Observed graph: a triangle plus an isolated edge.
	g, err := graph.New([][2]int64{{0, 1}, {1, 2}, {2, 0}, {3, 4}})
	if err != nil {
		fmt.Printf("Failed to build graph: %v\n", err)
		return
	}

	logger := reporting.NewLogger(reporting.LoggerConfig{
		Level:  reporting.LogLevelError,
		Format: reporting.LogFormatJSON,
		Output: io.Discard,
	})

	// Four independent chains, 100 accepted swaps each.
	results, err := mcmc.Run(context.Background(), g, nil, mcmc.DriverConfig{
		Algorithm:   mcmc.AlgorithmCM,
		Chains:      4,
		MaxWorkers:  2,
		Seed:        0,
		Budget:      100,
		ActualSwaps: true,
	}, logger)
	if err != nil {
		fmt.Printf("Sampling failed: %v\n", err)
		return
	}

	for _, res := range results {
		fmt.Printf("chain %d: %d edges, %d swaps\n", res.ChainID, len(res.Edges), res.Stats.NumSwaps)
	}
	// Output:
	// chain 0: 4 edges, 100 swaps
	// chain 1: 4 edges, 100 swaps
	// chain 2: 4 edges, 100 swaps
	// chain 3: 4 edges, 100 swaps
}
