package mcmc

import "github.com/jihwankim/graph-mcmc/pkg/graph"

// AssortativityTracker maintains Newman's degree-assortativity coefficient
// across swaps. Degrees never change, so of the moments
//
//	S1 = Σ deg(v), S2 = Σ deg(v)², S3 = Σ deg(v)³, SL = 2·Σ_{u,v} deg(u)·deg(v)
//
// only SL moves, and r = (S1·SL − S2²) / (S1·S3 − S2²) updates in O(1) per
// accepted swap.
type AssortativityTracker struct {
	s1    float64
	denom float64
	r     float64
}

// NewAssortativityTracker computes the moments of g and the starting r.
// A regular graph has a zero denominator; r is pinned to 0 in that case and
// the per-swap updates become no-ops.
func NewAssortativityTracker(g *graph.Graph) *AssortativityTracker {
	var s1, s3 int64
	for u := 0; u < g.NumNodes(); u++ {
		d := int64(g.Degree(int32(u)))
		s1 += d
		s3 += d * d * d
	}
	s2 := g.S2()

	var sl int64
	for i := 0; i < g.M(); i++ {
		e := g.Edge(i)
		sl += 2 * int64(g.Degree(e.U)) * int64(g.Degree(e.V))
	}

	t := &AssortativityTracker{
		s1:    float64(s1),
		denom: float64(s1)*float64(s3) - float64(s2)*float64(s2),
	}
	if t.denom != 0 {
		t.r = (float64(s1)*float64(sl) - float64(s2)*float64(s2)) / t.denom
	}
	return t
}

// OnAcceptedSwap folds one accepted swap into r.
func (t *AssortativityTracker) OnAcceptedSwap(g *graph.Graph, old1, old2, new1, new2 graph.Edge) {
	if t.denom == 0 {
		return
	}
	delta := int64(g.Degree(new1.U))*int64(g.Degree(new1.V)) +
		int64(g.Degree(new2.U))*int64(g.Degree(new2.V)) -
		int64(g.Degree(old1.U))*int64(g.Degree(old1.V)) -
		int64(g.Degree(old2.U))*int64(g.Degree(old2.V))
	t.r += t.s1 * 2 * float64(delta) / t.denom
}

// R returns the current coefficient.
func (t *AssortativityTracker) R() float64 { return t.r }

// Assortativity recomputes the coefficient of g from scratch. The tracker
// must agree with this to within floating-point error after any number of
// swaps.
func Assortativity(g *graph.Graph) float64 {
	return NewAssortativityTracker(g).R()
}
