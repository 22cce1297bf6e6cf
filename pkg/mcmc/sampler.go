// Package mcmc implements double-edge-swap Markov chain Monte Carlo over
// configuration-model state spaces: three sampler kernels (CM, LA, LW), a
// single-chain runner with convergence telemetry, and a parallel multi-chain
// driver.
package mcmc

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/jihwankim/graph-mcmc/pkg/graph"
)

// Algorithm names a sampler kernel.
type Algorithm string

const (
	// AlgorithmCM samples uniformly over multigraphs with the observed
	// degree sequence.
	AlgorithmCM Algorithm = "CM"
	// AlgorithmLA additionally preserves the joint label matrix exactly.
	AlgorithmLA Algorithm = "LA"
	// AlgorithmLW reweights acceptance toward a target label-mixing
	// structure without enforcing it.
	AlgorithmLW Algorithm = "LW"
)

// ParseAlgorithm maps a CLI name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case AlgorithmCM, AlgorithmLA, AlgorithmLW:
		return Algorithm(name), nil
	}
	return "", fmt.Errorf("unknown algorithm %q (want CM, LA or LW)", name)
}

// StepResult reports one MCMC step. State is mutated iff Accepted.
type StepResult struct {
	// Proposed is false when the drawn edge pair hit a forbidden outcome
	// (shared endpoint, would create a self-loop in a loop-free graph, or
	// identical produced edges). Forbidden steps still count as proposals.
	Proposed bool
	Accepted bool
	// Prob is the raw Metropolis-Hastings ratio before clamping, used for
	// telemetry bucketing.
	Prob float64
	// I, J, Pairing identify the swap; Old/New are the edges it exchanges.
	I, J, Pairing          int
	Old1, Old2, New1, New2 graph.Edge
}

// Sampler is one MCMC kernel. Step draws a proposal, decides acceptance,
// and on acceptance commits the swap to the graph and the label matrix.
type Sampler interface {
	Algorithm() Algorithm
	Step(g *graph.Graph, labels *graph.LabelIndex, rng *rand.Rand) StepResult
}

// NewSampler constructs the kernel for algo. LW takes its target joint label
// matrix from target, or from the current state of labels when target is nil.
func NewSampler(algo Algorithm, labels *graph.LabelIndex, target [][]int) (Sampler, error) {
	switch algo {
	case AlgorithmCM:
		return &cmSampler{}, nil
	case AlgorithmLA:
		if labels == nil {
			return nil, fmt.Errorf("algorithm LA requires node labels")
		}
		return &laSampler{}, nil
	case AlgorithmLW:
		if labels == nil {
			return nil, fmt.Errorf("algorithm LW requires node labels")
		}
		if target == nil {
			target = labels.JLMCopy()
		}
		total := 0
		for _, row := range target {
			for _, v := range row {
				total += v
			}
		}
		// Weights only ever appear as new/old ratios, so the normalization
		// by the matrix total cancels and the raw cell values suffice.
		if total == 0 {
			return nil, fmt.Errorf("algorithm LW: target joint label matrix is empty")
		}
		return &lwSampler{target: target}, nil
	}
	return nil, fmt.Errorf("unknown algorithm %q", algo)
}

// proposal is one drawn edge pair plus its rewiring.
type proposal struct {
	i, j, pairing  int
	e1, e2, n1, n2 graph.Edge
	ok             bool
}

// propose draws two distinct edge indices and a pairing coin, then applies
// the canonical double-edge-swap constraints. The draw order (i, j, pairing)
// is fixed so identical seeds replay identically.
func propose(g *graph.Graph, rng *rand.Rand) proposal {
	// A single-edge graph has no pair to draw; every step is a forbidden
	// proposal.
	if g.M() < 2 {
		return proposal{j: -1}
	}
	i, j := g.PickTwoDistinctEdges(rng)
	pairing := rng.Intn(2)
	e1, e2 := g.Edge(i), g.Edge(j)
	p := proposal{i: i, j: j, pairing: pairing, e1: e1, e2: e2}

	// Fewer than four distinct endpoints: no valid rewiring.
	if e1.IsLoop() || e2.IsLoop() ||
		e1.U == e2.U || e1.U == e2.V || e1.V == e2.U || e1.V == e2.V {
		return p
	}

	p.n1, p.n2 = graph.Rewire(e1, e2, pairing)

	// Stay in the loop-free graph class if the input had no self-loops.
	if !g.HasSelfLoops() && (p.n1.IsLoop() || p.n2.IsLoop()) {
		return p
	}
	// Both produced edges collapsing onto one pair is not a swap.
	if p.n1 == p.n2 {
		return p
	}
	p.ok = true
	return p
}

// cmAcceptance is the configuration-model Metropolis-Hastings ratio. The
// multiplicity terms correct for the non-uniform proposal over multigraphs;
// identical-pair and self-loop adjustments keep the handshake counts right
// on the degenerate corners.
func cmAcceptance(g *graph.Graph, e1, e2, n1, n2 graph.Edge) float64 {
	a1 := float64(g.MultiplicityOf(e1))
	var num float64
	if e1 == e2 {
		num = a1 * (a1 - 1)
	} else {
		num = a1 * float64(g.MultiplicityOf(e2))
	}
	if e1.IsLoop() {
		num *= 2
	}
	if e2.IsLoop() {
		num *= 2
	}

	b1 := float64(g.MultiplicityOf(n1))
	var den float64
	if n1 == n2 {
		den = (1 + b1) * (2 + b1)
	} else {
		den = (1 + b1) * (1 + float64(g.MultiplicityOf(n2)))
	}
	if n1.IsLoop() {
		den *= 2
	}
	if n2.IsLoop() {
		den *= 2
	}
	return num / den
}

// accept commits the swap to the graph and keeps the label matrix consistent
// with the edge list.
func accept(g *graph.Graph, labels *graph.LabelIndex, p proposal) {
	g.ApplySwap(p.i, p.j, p.pairing)
	if labels != nil {
		labels.Apply(labels.DeltaOnSwap(p.e1, p.e2, p.n1, p.n2))
	}
}

// cmSampler accepts on the configuration-model ratio alone.
type cmSampler struct{}

func (s *cmSampler) Algorithm() Algorithm { return AlgorithmCM }

func (s *cmSampler) Step(g *graph.Graph, labels *graph.LabelIndex, rng *rand.Rand) StepResult {
	p := propose(g, rng)
	res := StepResult{I: p.i, J: p.j, Pairing: p.pairing, Old1: p.e1, Old2: p.e2, New1: p.n1, New2: p.n2}
	if !p.ok {
		return res
	}
	res.Proposed = true
	res.Prob = cmAcceptance(g, p.e1, p.e2, p.n1, p.n2)
	if rng.Float64() < res.Prob {
		res.Accepted = true
		accept(g, labels, p)
	}
	return res
}

// laSampler gates on joint-label-matrix preservation, then applies the
// configuration-model ratio.
type laSampler struct{}

func (s *laSampler) Algorithm() Algorithm { return AlgorithmLA }

func (s *laSampler) Step(g *graph.Graph, labels *graph.LabelIndex, rng *rand.Rand) StepResult {
	p := propose(g, rng)
	res := StepResult{I: p.i, J: p.j, Pairing: p.pairing, Old1: p.e1, Old2: p.e2, New1: p.n1, New2: p.n2}
	if !p.ok {
		return res
	}
	res.Proposed = true

	delta := labels.DeltaOnSwap(p.e1, p.e2, p.n1, p.n2)
	if !delta.IsZero() {
		// The swap would change the label mixing; rejected outright.
		return res
	}
	res.Prob = cmAcceptance(g, p.e1, p.e2, p.n1, p.n2)
	if rng.Float64() < res.Prob {
		res.Accepted = true
		g.ApplySwap(p.i, p.j, p.pairing)
	}
	return res
}

// lwSampler multiplies the configuration-model ratio by the target-weight
// ratio of the produced vs replaced label pairs.
type lwSampler struct {
	target [][]int
}

func (s *lwSampler) Algorithm() Algorithm { return AlgorithmLW }

func (s *lwSampler) weight(labels *graph.LabelIndex, e graph.Edge) float64 {
	a, b := labels.Label(e.U), labels.Label(e.V)
	if a > b {
		a, b = b, a
	}
	return float64(s.target[a][b])
}

func (s *lwSampler) Step(g *graph.Graph, labels *graph.LabelIndex, rng *rand.Rand) StepResult {
	p := propose(g, rng)
	res := StepResult{I: p.i, J: p.j, Pairing: p.pairing, Old1: p.e1, Old2: p.e2, New1: p.n1, New2: p.n2}
	if !p.ok {
		return res
	}
	res.Proposed = true

	// With the default target (the observed matrix), edges present in the
	// chain always sit on positive-weight label pairs: the chain starts at the
	// observed graph and zero-weight pairs are never accepted into it, so the
	// denominator is positive. A caller-supplied target that is zero on an
	// observed label pair makes wOld zero; the ratio is then +Inf (always
	// accepted) or NaN when wNew is also zero (never accepted).
	wOld := s.weight(labels, p.e1) * s.weight(labels, p.e2)
	wNew := s.weight(labels, p.n1) * s.weight(labels, p.n2)
	res.Prob = cmAcceptance(g, p.e1, p.e2, p.n1, p.n2) * wNew / wOld
	if rng.Float64() < res.Prob {
		res.Accepted = true
		accept(g, labels, p)
	}
	return res
}

// FormatProbKey renders an acceptance probability as a histogram bucket key:
// the decimal string of the raw ratio at six significant digits. The string
// form is the observable protocol of the acceptance output files.
func FormatProbKey(p float64) string {
	return strconv.FormatFloat(p, 'g', 6, 64)
}
