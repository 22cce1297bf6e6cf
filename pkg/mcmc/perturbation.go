package mcmc

import "github.com/jihwankim/graph-mcmc/pkg/graph"

// PerturbationMeter tracks how far the chain has wandered from the observed
// graph: half the L1 distance between the current and original adjacency
// multisets. A swap touches at most four cells, so the distance is
// maintained incrementally.
type PerturbationMeter struct {
	diff map[uint64]int // current − original, per canonical edge key
	l1   int
}

// NewPerturbationMeter starts a meter at distance zero from g.
func NewPerturbationMeter(g *graph.Graph) *PerturbationMeter {
	return &PerturbationMeter{diff: make(map[uint64]int)}
}

// OnAcceptedSwap folds one accepted swap into the distance.
func (p *PerturbationMeter) OnAcceptedSwap(old1, old2, new1, new2 graph.Edge) {
	p.bump(old1.Key(), -1)
	p.bump(old2.Key(), -1)
	p.bump(new1.Key(), 1)
	p.bump(new2.Key(), 1)
}

func (p *PerturbationMeter) bump(key uint64, d int) {
	prev := p.diff[key]
	next := prev + d
	if next == 0 {
		delete(p.diff, key)
	} else {
		p.diff[key] = next
	}
	p.l1 += abs(next) - abs(prev)
}

// Score returns the current perturbation score. Each relocated edge counts
// once, hence the halving.
func (p *PerturbationMeter) Score() float64 {
	return float64(p.l1) / 2
}

// PerturbationScore recomputes the score of current against original by a
// full scan of both multisets.
func PerturbationScore(current, original *graph.Graph) float64 {
	counts := make(map[uint64]int)
	original.AdjacencyKeys(func(key uint64, n int) { counts[key] = n })
	current.AdjacencyKeys(func(key uint64, n int) { counts[key] -= n })

	l1 := 0
	for _, d := range counts {
		l1 += abs(d)
	}
	return float64(l1) / 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
