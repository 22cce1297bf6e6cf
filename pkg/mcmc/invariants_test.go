package mcmc

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jihwankim/graph-mcmc/pkg/graph"
)

// checkStateInvariants asserts the universal sampler invariants: the degree
// sequence, the edge count, non-negative multiplicities, and edge-list /
// multiset consistency.
func checkStateInvariants(t *testing.T, g *graph.Graph, wantDegrees []int, wantM int) {
	t.Helper()

	require.Equal(t, wantM, g.M())

	degs := degreesFromEdges(g)
	sortedWant := append([]int(nil), wantDegrees...)
	sortedGot := append([]int(nil), degs...)
	sort.Ints(sortedWant)
	sort.Ints(sortedGot)
	require.Equal(t, sortedWant, sortedGot)

	rebuilt := make(map[uint64]int)
	total := 0
	for i := 0; i < g.M(); i++ {
		rebuilt[g.Edge(i).Key()]++
	}
	g.AdjacencyKeys(func(key uint64, n int) {
		require.Greater(t, n, 0)
		require.Equal(t, rebuilt[key], n)
		total += n
		delete(rebuilt, key)
	})
	require.Equal(t, wantM, total)
	require.Empty(t, rebuilt, "edges missing from the adjacency multiset")
}

func TestUniversalInvariantsAllSamplers(t *testing.T) {
	pairs := [][2]int64{
		{0, 1}, {0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0}, {2, 5},
	}
	labelMap := map[int64]int{0: 0, 1: 0, 2: 1, 3: 1, 4: 2, 5: 2}

	for _, algo := range []Algorithm{AlgorithmCM, AlgorithmLA, AlgorithmLW} {
		t.Run(string(algo), func(t *testing.T) {
			g := mustGraph(t, pairs)
			labels := mustLabels(t, g, labelMap)
			wantDegrees := g.DegreeSequence()
			wantJLM := labels.JLMCopy()

			s, err := NewSampler(algo, labels, nil)
			require.NoError(t, err)

			rng := rand.New(rand.NewSource(77))
			accepted := 0
			for n := 0; n < 3000; n++ {
				res := s.Step(g, labels, rng)
				if !res.Accepted {
					continue
				}
				accepted++
				checkStateInvariants(t, g, wantDegrees, len(pairs))
				if algo == AlgorithmLA {
					require.Equal(t, wantJLM, labels.JLMCopy(), "LA drifted the joint label matrix")
				}
			}
			require.Greater(t, accepted, 0)
		})
	}
}
