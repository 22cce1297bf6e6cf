package mcmc

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"github.com/jihwankim/graph-mcmc/pkg/graph"
)

// ChainConfig parameterizes one chain.
type ChainConfig struct {
	ChainID int
	// Seed seeds the chain's private PRNG (base seed + chain id, set by the
	// driver).
	Seed int64
	// Budget is the termination target: proposals by default, accepted
	// swaps when ActualSwaps is set.
	Budget int
	// ActualSwaps counts only accepted transitions toward the budget.
	ActualSwaps bool
	// SnapshotEvery, when positive, enables convergence telemetry with one
	// snapshot per that many proposals.
	SnapshotEvery int
}

// Histogram buckets step outcomes by the string form of the raw acceptance
// ratio.
type Histogram struct {
	Accepted map[string]int `json:"accepted"`
	Rejected map[string]int `json:"rejected"`
}

// ChainStats summarizes one finished chain.
type ChainStats struct {
	TotalNs         int64            `json:"total_ns"`
	AcceptNs        int64            `json:"accept_ns"`
	RejectNs        int64            `json:"reject_ns"`
	AcceptanceRatio float64          `json:"acceptance_ratio"`
	NumSwaps        int              `json:"num_swaps"`
	Proposals       int              `json:"proposals"`
	NumEdges        int              `json:"num_edges"`
	ChainID         int              `json:"chain_id"`
	Method          string           `json:"method"`
	TimeAtIter      map[string]int64 `json:"time_at_iter_ns,omitempty"`
}

// ChainResult is the output of one chain: the sampled edge list plus the
// telemetry collected along the way.
type ChainResult struct {
	ChainID         int
	Method          Algorithm
	Edges           [][2]int64
	Assortativities []float64
	Perturbations   []float64
	Probs           Histogram
	Stats           ChainStats
	// WallNs is wall-clock chain duration, used in sample file names.
	WallNs int64
}

// RunChain walks one chain to its budget. The graph and label index must be
// private to this chain (the driver deep-copies them); the context is polled
// between proposals for cooperative cancellation.
func RunChain(ctx context.Context, g *graph.Graph, labels *graph.LabelIndex, sampler Sampler, cfg ChainConfig) (*ChainResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	telemetry := cfg.SnapshotEvery > 0
	var assort *AssortativityTracker
	var perturb *PerturbationMeter
	if telemetry {
		assort = NewAssortativityTracker(g)
		perturb = NewPerturbationMeter(g)
	}

	res := &ChainResult{
		ChainID: cfg.ChainID,
		Method:  sampler.Algorithm(),
		Probs: Histogram{
			Accepted: make(map[string]int),
			Rejected: make(map[string]int),
		},
	}
	timeAtIter := make(map[string]int64)

	start := time.Now()
	var elapsedNs, acceptNs, rejectNs int64
	proposals, swaps := 0, 0

	for {
		if cfg.ActualSwaps {
			if swaps >= cfg.Budget {
				break
			}
		} else if proposals >= cfg.Budget {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stepStart := time.Now()
		step := sampler.Step(g, labels, rng)
		stepNs := time.Since(stepStart).Nanoseconds()
		elapsedNs += stepNs
		proposals++

		key := FormatProbKey(step.Prob)
		if step.Accepted {
			swaps++
			acceptNs += stepNs
			res.Probs.Accepted[key]++
			if telemetry {
				assort.OnAcceptedSwap(g, step.Old1, step.Old2, step.New1, step.New2)
				perturb.OnAcceptedSwap(step.Old1, step.Old2, step.New1, step.New2)
			}
		} else {
			rejectNs += stepNs
			res.Probs.Rejected[key]++
		}

		// First snapshot lands after the first proposal, then every
		// SnapshotEvery proposals.
		if telemetry && (proposals-1)%cfg.SnapshotEvery == 0 {
			res.Assortativities = append(res.Assortativities, assort.R())
			res.Perturbations = append(res.Perturbations, perturb.Score())
			timeAtIter[strconv.Itoa(proposals)] = elapsedNs
		}
	}

	ratio := 0.0
	if proposals > 0 {
		ratio = float64(swaps) / float64(proposals)
	}
	res.Edges = g.Edges()
	res.WallNs = time.Since(start).Nanoseconds()
	res.Stats = ChainStats{
		TotalNs:         elapsedNs,
		AcceptNs:        acceptNs,
		RejectNs:        rejectNs,
		AcceptanceRatio: ratio,
		NumSwaps:        swaps,
		Proposals:       proposals,
		NumEdges:        g.M(),
		ChainID:         cfg.ChainID,
		Method:          string(sampler.Algorithm()),
	}
	if telemetry {
		res.Stats.TimeAtIter = timeAtIter
	}
	return res, nil
}
