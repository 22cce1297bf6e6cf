// Package graph holds the mutable multigraph state the MCMC samplers walk
// over: an indexed edge list, an adjacency multiset with O(1) multiplicity
// lookup, and the fixed degree sequence. Node ids are remapped to a dense
// [0, n) range at construction; the original ids are kept for output.
package graph

import (
	"fmt"
	"math/rand"
	"sort"
)

// Edge is an unordered pair of dense node ids.
type Edge struct {
	U, V int32
}

// Canonical returns the edge with endpoints sorted ascending.
func (e Edge) Canonical() Edge {
	if e.U > e.V {
		return Edge{U: e.V, V: e.U}
	}
	return e
}

// IsLoop reports whether the edge is a self-loop.
func (e Edge) IsLoop() bool {
	return e.U == e.V
}

// Key packs the canonical pair into a single map key.
func (e Edge) Key() uint64 {
	c := e.Canonical()
	return uint64(uint32(c.U))<<32 | uint64(uint32(c.V))
}

// Graph is the per-chain mutable state: the edge list, the adjacency
// multiset, and the (immutable) degree sequence. The degree slice and the
// dense→original id table are shared across clones; everything else is owned
// by one chain.
type Graph struct {
	edges    []Edge
	adj      map[uint64]int
	degrees  []int   // dense id → degree; never mutated after construction
	nodes    []int64 // dense id → original id; never mutated
	m        int
	s2       int64
	hasLoops bool
}

// New builds a Graph from edges in original node ids. Ids are remapped to a
// dense range in ascending original-id order; degrees are derived from the
// edge list (a self-loop contributes 2 to its endpoint's degree).
func New(pairs [][2]int64) (*Graph, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("graph has no edges")
	}

	// Collect and sort the distinct original ids.
	seen := make(map[int64]struct{}, len(pairs)*2)
	for _, p := range pairs {
		seen[p[0]] = struct{}{}
		seen[p[1]] = struct{}{}
	}
	nodes := make([]int64, 0, len(seen))
	for id := range seen {
		nodes = append(nodes, id)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	dense := make(map[int64]int32, len(nodes))
	for i, id := range nodes {
		dense[id] = int32(i)
	}

	g := &Graph{
		edges:   make([]Edge, len(pairs)),
		adj:     make(map[uint64]int, len(pairs)),
		degrees: make([]int, len(nodes)),
		nodes:   nodes,
		m:       len(pairs),
	}
	for i, p := range pairs {
		e := Edge{U: dense[p[0]], V: dense[p[1]]}.Canonical()
		g.edges[i] = e
		g.adj[e.Key()]++
		if e.IsLoop() {
			g.degrees[e.U] += 2
			g.hasLoops = true
		} else {
			g.degrees[e.U]++
			g.degrees[e.V]++
		}
	}
	for _, d := range g.degrees {
		g.s2 += int64(d) * int64(d)
	}
	return g, nil
}

// Clone deep-copies the mutable state (edge list and adjacency multiset).
// Degrees and the id table are immutable and shared.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		edges:    make([]Edge, len(g.edges)),
		adj:      make(map[uint64]int, len(g.adj)),
		degrees:  g.degrees,
		nodes:    g.nodes,
		m:        g.m,
		s2:       g.s2,
		hasLoops: g.hasLoops,
	}
	copy(c.edges, g.edges)
	for k, v := range g.adj {
		c.adj[k] = v
	}
	return c
}

// M returns the number of edges.
func (g *Graph) M() int { return g.m }

// NumNodes returns the number of distinct nodes.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// Degree returns the degree of the dense node id u.
func (g *Graph) Degree(u int32) int { return g.degrees[u] }

// S2 returns the cached sum of squared degrees.
func (g *Graph) S2() int64 { return g.s2 }

// HasSelfLoops reports whether the original graph contained self-loops.
// Samplers must keep the chain inside the same graph class.
func (g *Graph) HasSelfLoops() bool { return g.hasLoops }

// Edge returns the edge at index i.
func (g *Graph) Edge(i int) Edge { return g.edges[i] }

// Multiplicity returns the number of parallel copies of {u, v}.
func (g *Graph) Multiplicity(u, v int32) int {
	return g.adj[Edge{U: u, V: v}.Key()]
}

// MultiplicityOf returns the number of parallel copies of e.
func (g *Graph) MultiplicityOf(e Edge) int {
	return g.adj[e.Key()]
}

// OriginalID maps a dense node id back to the input id.
func (g *Graph) OriginalID(u int32) int64 { return g.nodes[u] }

// Edges returns the current edge list in original node ids.
func (g *Graph) Edges() [][2]int64 {
	out := make([][2]int64, len(g.edges))
	for i, e := range g.edges {
		out[i] = [2]int64{g.nodes[e.U], g.nodes[e.V]}
	}
	return out
}

// PickTwoDistinctEdges draws two distinct edge indices uniformly from [0, m).
// The second index is drawn by rejection so both orders are equally likely.
// Requires m >= 2.
func (g *Graph) PickTwoDistinctEdges(rng *rand.Rand) (int, int) {
	i := rng.Intn(g.m)
	j := rng.Intn(g.m)
	for j == i {
		j = rng.Intn(g.m)
	}
	return i, j
}

// Rewire returns the two edges produced by replacing {a,b} and {c,d} under
// the given pairing: 0 → {a,c},{b,d}; 1 → {a,d},{b,c}.
func Rewire(e1, e2 Edge, pairing int) (Edge, Edge) {
	if pairing == 0 {
		return Edge{U: e1.U, V: e2.U}.Canonical(), Edge{U: e1.V, V: e2.V}.Canonical()
	}
	return Edge{U: e1.U, V: e2.V}.Canonical(), Edge{U: e1.V, V: e2.U}.Canonical()
}

// ApplySwap replaces the edges at indices i and j with the rewiring dictated
// by pairing and updates the adjacency multiset. It returns the replaced and
// produced edges.
func (g *Graph) ApplySwap(i, j, pairing int) (old1, old2, new1, new2 Edge) {
	old1, old2 = g.edges[i], g.edges[j]
	new1, new2 = Rewire(old1, old2, pairing)

	g.decr(old1)
	g.decr(old2)
	g.adj[new1.Key()]++
	g.adj[new2.Key()]++
	g.edges[i] = new1
	g.edges[j] = new2
	return old1, old2, new1, new2
}

// RevertSwap undoes an ApplySwap(i, j, ...) given the edges it replaced.
func (g *Graph) RevertSwap(i, j int, old1, old2 Edge) {
	g.decr(g.edges[i])
	g.decr(g.edges[j])
	g.adj[old1.Key()]++
	g.adj[old2.Key()]++
	g.edges[i] = old1
	g.edges[j] = old2
}

func (g *Graph) decr(e Edge) {
	k := e.Key()
	if g.adj[k] <= 1 {
		delete(g.adj, k)
		return
	}
	g.adj[k]--
}

// AdjacencyKeys iterates the multiset, calling fn with each packed key and
// its multiplicity. Used by the perturbation baseline and by invariant checks.
func (g *Graph) AdjacencyKeys(fn func(key uint64, count int)) {
	for k, v := range g.adj {
		fn(k, v)
	}
}

// DegreeSequence returns a copy of the degree slice, for invariant checks.
func (g *Graph) DegreeSequence() []int {
	out := make([]int, len(g.degrees))
	copy(out, g.degrees)
	return out
}
